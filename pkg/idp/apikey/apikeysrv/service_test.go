package apikeysrv_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey/apikeysrv"
	"github.com/oidc-lite/oidc-lite/pkg/ptrx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memKeyRepo is an in-memory apikey.Repository for service tests.
type memKeyRepo struct {
	keys    map[string]apikey.APIKey
	failAll error
}

func newMemKeyRepo() *memKeyRepo {
	return &memKeyRepo{keys: make(map[string]apikey.APIKey)}
}

func (r *memKeyRepo) Create(_ context.Context, key apikey.APIKey) error {
	if r.failAll != nil {
		return r.failAll
	}
	if _, ok := r.keys[key.ID]; ok {
		return apikey.ErrAlreadyExists()
	}
	r.keys[key.ID] = key
	return nil
}

func (r *memKeyRepo) FindByID(_ context.Context, id string) (*apikey.APIKey, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	key, ok := r.keys[id]
	if !ok {
		return nil, apikey.ErrNotFound()
	}
	return &key, nil
}

func (r *memKeyRepo) FindByKey(_ context.Context, value string) (*apikey.APIKey, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, key := range r.keys {
		if key.Key == value {
			k := key
			return &k, nil
		}
	}
	return nil, apikey.ErrNotFound()
}

func (r *memKeyRepo) Update(_ context.Context, key apikey.APIKey) error {
	if r.failAll != nil {
		return r.failAll
	}
	if _, ok := r.keys[key.ID]; !ok {
		return apikey.ErrNotFound()
	}
	r.keys[key.ID] = key
	return nil
}

func (r *memKeyRepo) Delete(_ context.Context, id string) error {
	if r.failAll != nil {
		return r.failAll
	}
	if _, ok := r.keys[id]; !ok {
		return apikey.ErrNotFound()
	}
	delete(r.keys, id)
	return nil
}

func TestCreate_GeneratesSecret(t *testing.T) {
	repo := newMemKeyRepo()
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())

	key, err := svc.Create(context.Background(), "key-1", &apikey.CreatePayload{})
	require.NoError(t, err)

	assert.Equal(t, "key-1", key.ID)
	assert.True(t, strings.HasPrefix(key.Key, "ok_"))
	assert.Greater(t, len(key.Key), 3)
	assert.False(t, key.KeyManager, "create must never grant the key-manager flag")
	assert.Nil(t, key.TenantID)
	assert.False(t, key.CreatedAt.IsZero())
	assert.Equal(t, key.CreatedAt, key.UpdatedAt)
}

func TestCreate_WithTenantScopedPermissions(t *testing.T) {
	repo := newMemKeyRepo()
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())

	payload := &apikey.CreatePayload{
		Key: ptrx.String("ok_fixedsecret"),
		Permissions: &apikey.Permissions{
			TenantID: ptrx.String("tenant-a"),
			Endpoints: []apikey.EndpointPermission{
				{URL: "/api/v1/refresh-tokens/*", Methods: []string{"DELETE"}},
			},
		},
		Metadata: map[string]any{"owner": "provisioning"},
	}

	key, err := svc.Create(context.Background(), "key-2", payload)
	require.NoError(t, err)

	assert.Equal(t, "ok_fixedsecret", key.Key)
	require.NotNil(t, key.TenantID)
	assert.Equal(t, "tenant-a", key.TenantID.String())

	perms := key.Permissions()
	require.Len(t, perms.Endpoints, 1)
	assert.Equal(t, "/api/v1/refresh-tokens/*", perms.Endpoints[0].URL)
	assert.Equal(t, "provisioning", key.Metadata()["owner"])
}

func TestCreate_DuplicateID(t *testing.T) {
	repo := newMemKeyRepo()
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Create(ctx, "key-dup", &apikey.CreatePayload{Key: ptrx.String("ok_original")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "key-dup", &apikey.CreatePayload{Key: ptrx.String("ok_other")})
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeConflict))

	// The stored record must be untouched by the rejected create.
	stored, err := svc.Get(ctx, "key-dup")
	require.NoError(t, err)
	assert.Equal(t, first.Key, stored.Key)
}

func TestCreate_InvalidInput(t *testing.T) {
	svc := apikeysrv.NewAPIKeyService(newMemKeyRepo(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "", &apikey.CreatePayload{})
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	_, err = svc.Create(ctx, "key-3", nil)
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestCreateWithGeneratedID(t *testing.T) {
	repo := newMemKeyRepo()
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())

	key, err := svc.CreateWithGeneratedID(context.Background(), &apikey.CreatePayload{})
	require.NoError(t, err)
	assert.NotEmpty(t, key.ID)

	other, err := svc.CreateWithGeneratedID(context.Background(), &apikey.CreatePayload{})
	require.NoError(t, err)
	assert.NotEqual(t, key.ID, other.ID)
}

func TestGet_NotFound(t *testing.T) {
	svc := apikeysrv.NewAPIKeyService(newMemKeyRepo(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo := newMemKeyRepo()
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, "key-4", &apikey.CreatePayload{
		Permissions: &apikey.Permissions{
			TenantID:  ptrx.String("tenant-a"),
			Endpoints: []apikey.EndpointPermission{{URL: "*", Methods: []string{"*"}}},
		},
		Metadata: map[string]any{"env": "staging"},
	})
	require.NoError(t, err)

	// Patch only the secret; permissions, tenant scope, and metadata stay.
	updated, err := svc.Update(ctx, "key-4", &apikey.UpdatePayload{Key: ptrx.String("ok_rotated")})
	require.NoError(t, err)

	assert.Equal(t, "ok_rotated", updated.Key)
	assert.Equal(t, created.PermissionsJSON, updated.PermissionsJSON)
	assert.Equal(t, created.MetadataJSON, updated.MetadataJSON)
	require.NotNil(t, updated.TenantID)
	assert.Equal(t, "tenant-a", updated.TenantID.String())
}

func TestUpdate_EmptyPatchRetainsEverything(t *testing.T) {
	repo := newMemKeyRepo()
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, "key-5", &apikey.CreatePayload{Key: ptrx.String("ok_stable")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "key-5", &apikey.UpdatePayload{})
	require.NoError(t, err)

	assert.Equal(t, created.Key, updated.Key)
	assert.Equal(t, created.PermissionsJSON, updated.PermissionsJSON)
	assert.Equal(t, created.MetadataJSON, updated.MetadataJSON)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdate_PermissionsReplaceTenantScope(t *testing.T) {
	repo := newMemKeyRepo()
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "key-6", &apikey.CreatePayload{
		Permissions: &apikey.Permissions{TenantID: ptrx.String("tenant-a")},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "key-6", &apikey.UpdatePayload{
		Permissions: &apikey.Permissions{
			Endpoints: []apikey.EndpointPermission{{URL: "/api/v1/otp/*", Methods: []string{"POST"}}},
		},
	})
	require.NoError(t, err)

	// The patched permissions carry no tenant, so the scope is cleared.
	assert.Nil(t, updated.TenantID)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := apikeysrv.NewAPIKeyService(newMemKeyRepo(), zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", &apikey.UpdatePayload{})
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestDelete(t *testing.T) {
	repo := newMemKeyRepo()
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "key-7", &apikey.CreatePayload{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "key-7"))

	_, err = svc.Get(ctx, "key-7")
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestDelete_StoreErrorIsInternal(t *testing.T) {
	svc := apikeysrv.NewAPIKeyService(newMemKeyRepo(), zap.NewNop())

	// Deleting an id the store never held surfaces as an internal failure.
	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeInternal))
}

func TestCreate_StoreOutage(t *testing.T) {
	repo := newMemKeyRepo()
	repo.failAll = errors.New("connection refused")
	svc := apikeysrv.NewAPIKeyService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), "key-8", &apikey.CreatePayload{})
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeInternal))
}
