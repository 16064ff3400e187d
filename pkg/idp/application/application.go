// Package application holds the OIDC application entity, scoped to one
// tenant. Only lookups are exposed; application CRUD lives elsewhere.
package application

import (
	"context"
	"net/http"
	"time"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

type Application struct {
	ID        kernel.ApplicationID `db:"id" json:"id"`
	TenantID  kernel.TenantID      `db:"tenants_id" json:"tenantsId"`
	Name      string               `db:"name" json:"name"`
	CreatedAt time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time            `db:"updated_at" json:"updatedAt"`
}

type Repository interface {
	FindByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)
}

var ErrRegistry = errx.NewRegistry("APPLICATION")

var CodeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }
