// Package user holds the user entity. Only lookups are exposed; user CRUD
// lives elsewhere.
package user

import (
	"context"
	"net/http"
	"time"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

type User struct {
	ID        kernel.UserID   `db:"id" json:"id"`
	TenantID  kernel.TenantID `db:"tenants_id" json:"tenantsId"`
	Email     string          `db:"email" json:"email"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

type Repository interface {
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)
}

var ErrRegistry = errx.NewRegistry("USER")

var CodeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }
