// Package tenant holds the tenant isolation boundary. Only the lookups the
// credential subsystems need are exposed here; tenant CRUD lives elsewhere.
package tenant

import (
	"context"
	"net/http"
	"time"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

type Tenant struct {
	ID        kernel.TenantID `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

type Repository interface {
	FindByID(ctx context.Context, id kernel.TenantID) (*Tenant, error)
}

var ErrRegistry = errx.NewRegistry("TENANT")

var CodeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Tenant not found")

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }
