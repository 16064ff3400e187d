package refreshtoken

import (
	"context"

	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

// Repository is the record-store contract for refresh tokens. Find methods
// return ErrNotFound for missing records; bulk deletions succeed on an empty
// match set.
type Repository interface {
	Create(ctx context.Context, token RefreshToken) error
	FindByID(ctx context.Context, id string) (*RefreshToken, error)
	FindByToken(ctx context.Context, tokenValue string) (*RefreshToken, error)
	FindByUserID(ctx context.Context, userID kernel.UserID) ([]*RefreshToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, tokenValue string) error
	DeleteManyByApplicationID(ctx context.Context, applicationID kernel.ApplicationID) error
	DeleteManyByUserID(ctx context.Context, userID kernel.UserID) error
	DeleteManyByUserAndApplicationID(ctx context.Context, userID kernel.UserID, applicationID kernel.ApplicationID) error
}

// Authorizer verifies that the headers of an inbound request authorize an
// operation on a route, optionally scoped to a tenant (nil means unscoped).
type Authorizer interface {
	VerifyHeader(ctx context.Context, headers map[string]string, tenantID *kernel.TenantID, routePath, httpMethod string) error
}
