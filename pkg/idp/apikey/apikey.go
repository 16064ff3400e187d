package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

// APIKey is a bearer secret granting scoped programmatic access. Permissions
// and metadata are caller-supplied structured payloads stored as serialized
// text; TenantID is nil for keys unscoped across all tenants.
type APIKey struct {
	ID              string           `db:"id" json:"id"`
	Key             string           `db:"key_value" json:"key"`
	KeyManager      bool             `db:"key_manager" json:"keyManager"`
	PermissionsJSON string           `db:"permissions" json:"-"`
	MetadataJSON    string           `db:"metadata" json:"-"`
	TenantID        *kernel.TenantID `db:"tenants_id" json:"tenantsId"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`
}

// EndpointPermission grants a set of HTTP methods on one route.
type EndpointPermission struct {
	URL     string   `json:"url"`
	Methods []string `json:"methods"`
}

// Permissions is the structured permission payload of a key: an ordered list
// of endpoint grants plus an optional tenant scope.
type Permissions struct {
	TenantID  *string              `json:"tenantId,omitempty"`
	Endpoints []EndpointPermission `json:"endpoints"`
}

// CreatePayload is the caller-supplied payload for key creation. Key is
// optional; a secret is generated when absent.
type CreatePayload struct {
	Key         *string        `json:"key,omitempty"`
	Permissions *Permissions   `json:"permissions,omitempty"`
	Metadata    map[string]any `json:"metaData,omitempty"`
}

// UpdatePayload is a partial patch: only non-nil fields change, every other
// field retains its prior serialized value.
type UpdatePayload struct {
	Key         *string        `json:"key,omitempty"`
	Permissions *Permissions   `json:"permissions,omitempty"`
	Metadata    map[string]any `json:"metaData,omitempty"`
}

// Permissions deserializes the stored permission payload. Malformed legacy
// data degrades to an empty grant set rather than failing the read.
func (k *APIKey) Permissions() Permissions {
	var p Permissions
	if k.PermissionsJSON == "" {
		return p
	}
	if err := json.Unmarshal([]byte(k.PermissionsJSON), &p); err != nil {
		return Permissions{}
	}
	return p
}

// Metadata deserializes the stored metadata payload with the same fallback.
func (k *APIKey) Metadata() map[string]any {
	if k.MetadataJSON == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(k.MetadataJSON), &m); err != nil {
		return map[string]any{}
	}
	return m
}

const keyPrefix = "ok_"

// GenerateKeyValue produces a new random key secret. 32 bytes of entropy,
// hex-encoded, with a recognizable prefix.
func GenerateKeyValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return keyPrefix + hex.EncodeToString(buf), nil
}
