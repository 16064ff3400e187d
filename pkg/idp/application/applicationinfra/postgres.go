package applicationinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/application"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

type PostgresApplicationRepository struct {
	db *sqlx.DB
}

func NewPostgresApplicationRepository(db *sqlx.DB) application.Repository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) FindByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	var app application.Application
	err := r.db.GetContext(ctx, &app, `SELECT * FROM applications WHERE id = $1`, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, application.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find application by id", errx.TypeInternal)
	}
	return &app, nil
}
