package tenantinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/tenant"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

type PostgresTenantRepository struct {
	db *sqlx.DB
}

func NewPostgresTenantRepository(db *sqlx.DB) tenant.Repository {
	return &PostgresTenantRepository{db: db}
}

func (r *PostgresTenantRepository) FindByID(ctx context.Context, id kernel.TenantID) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.GetContext(ctx, &t, `SELECT * FROM tenants WHERE id = $1`, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, tenant.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find tenant by id", errx.TypeInternal)
	}
	return &t, nil
}
