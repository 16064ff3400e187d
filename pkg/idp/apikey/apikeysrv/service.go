// Package apikeysrv owns the API key lifecycle: creation with scoped
// permissions, lookup, partial update, and deletion.
package apikeysrv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
	"go.uber.org/zap"
)

type APIKeyService struct {
	repo apikey.Repository
	log  *zap.Logger
}

func NewAPIKeyService(repo apikey.Repository, log *zap.Logger) *APIKeyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIKeyService{repo: repo, log: log}
}

// Create issues a new API key under the given id. The tenant scope is
// resolved from the payload's permissions (absent means unscoped across all
// tenants), the key-manager flag is always forced off on this path, and a
// random secret is generated when the payload carries none.
func (s *APIKeyService) Create(ctx context.Context, id string, payload *apikey.CreatePayload) (*apikey.APIKey, error) {
	if id == "" || payload == nil {
		return nil, apikey.ErrInvalidInput("api key id and payload are required")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil && !errx.IsType(err, errx.TypeNotFound) {
		s.auditFailure("create", id, err)
		return nil, apikey.ErrStoreFailure(err)
	}
	if existing != nil {
		s.auditFailure("create", id, apikey.ErrAlreadyExists())
		return nil, apikey.ErrAlreadyExists()
	}

	keyValue := ""
	if payload.Key != nil && *payload.Key != "" {
		keyValue = *payload.Key
	} else {
		keyValue, err = apikey.GenerateKeyValue()
		if err != nil {
			return nil, apikey.ErrStoreFailure(err)
		}
	}

	permissionsJSON, tenantID, err := serializePermissions(payload.Permissions)
	if err != nil {
		return nil, apikey.ErrInvalidInput("malformed permissions payload")
	}
	metadataJSON, err := serializeMetadata(payload.Metadata)
	if err != nil {
		return nil, apikey.ErrInvalidInput("malformed metadata payload")
	}

	now := time.Now().UTC()
	record := apikey.APIKey{
		ID:              id,
		Key:             keyValue,
		KeyManager:      false,
		PermissionsJSON: permissionsJSON,
		MetadataJSON:    metadataJSON,
		TenantID:        tenantID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.auditFailure("create", id, err)
		if errx.IsType(err, errx.TypeConflict) {
			return nil, err
		}
		return nil, apikey.ErrStoreFailure(err)
	}

	s.auditSuccess("create", id)
	return &record, nil
}

// CreateWithGeneratedID issues a key under a fresh random id.
func (s *APIKeyService) CreateWithGeneratedID(ctx context.Context, payload *apikey.CreatePayload) (*apikey.APIKey, error) {
	return s.Create(ctx, uuid.NewString(), payload)
}

// Get returns the key stored under id.
func (s *APIKeyService) Get(ctx context.Context, id string) (*apikey.APIKey, error) {
	if id == "" {
		return nil, apikey.ErrInvalidInput("api key id is required")
	}
	key, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil, err
		}
		return nil, apikey.ErrStoreFailure(err)
	}
	return key, nil
}

// Update applies a partial patch: any field omitted in the patch retains its
// prior serialized value. The tenant scope follows the permissions payload
// when that is patched and is retained otherwise.
func (s *APIKeyService) Update(ctx context.Context, id string, patch *apikey.UpdatePayload) (*apikey.APIKey, error) {
	if id == "" || patch == nil {
		return nil, apikey.ErrInvalidInput("api key id and patch are required")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			s.auditFailure("update", id, err)
			return nil, err
		}
		return nil, apikey.ErrStoreFailure(err)
	}

	if patch.Key != nil && *patch.Key != "" {
		record.Key = *patch.Key
	}
	if patch.Permissions != nil {
		permissionsJSON, tenantID, err := serializePermissions(patch.Permissions)
		if err != nil {
			return nil, apikey.ErrInvalidInput("malformed permissions payload")
		}
		record.PermissionsJSON = permissionsJSON
		record.TenantID = tenantID
	}
	if patch.Metadata != nil {
		metadataJSON, err := serializeMetadata(patch.Metadata)
		if err != nil {
			return nil, apikey.ErrInvalidInput("malformed metadata payload")
		}
		record.MetadataJSON = metadataJSON
	}
	record.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *record); err != nil {
		s.auditFailure("update", id, err)
		return nil, apikey.ErrStoreFailure(err)
	}

	s.auditSuccess("update", id)
	return record, nil
}

// Delete removes the key unconditionally. A store error, including one for a
// non-existent id, surfaces as an internal failure; nothing is retried.
func (s *APIKeyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apikey.ErrInvalidInput("api key id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.auditFailure("delete", id, err)
		return apikey.ErrStoreFailure(err)
	}
	s.auditSuccess("delete", id)
	return nil
}

func serializePermissions(p *apikey.Permissions) (string, *kernel.TenantID, error) {
	if p == nil {
		p = &apikey.Permissions{}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", nil, err
	}
	var tenantID *kernel.TenantID
	if p.TenantID != nil && *p.TenantID != "" {
		t := kernel.NewTenantID(*p.TenantID)
		tenantID = &t
	}
	return string(raw), tenantID, nil
}

func serializeMetadata(m map[string]any) (string, error) {
	if m == nil {
		m = map[string]any{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *APIKeyService) auditSuccess(op, id string) {
	s.log.Info("api key "+op,
		zap.String("audit_event", "apikey_"+op),
		zap.String("key_id", id),
		zap.Bool("success", true),
	)
}

func (s *APIKeyService) auditFailure(op, id string, err error) {
	s.log.Warn("api key "+op+" failed",
		zap.String("audit_event", "apikey_"+op),
		zap.String("key_id", id),
		zap.Bool("success", false),
		zap.Error(err),
	)
}
