// Package apikeyinfra implements the API key repository on PostgreSQL.
package apikeyinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey"
)

type PostgresAPIKeyRepository struct {
	db *sqlx.DB
}

func NewPostgresAPIKeyRepository(db *sqlx.DB) apikey.Repository {
	return &PostgresAPIKeyRepository{db: db}
}

func (r *PostgresAPIKeyRepository) Create(ctx context.Context, key apikey.APIKey) error {
	query := `
		INSERT INTO api_keys (
			id, key_value, key_manager, permissions, metadata, tenants_id,
			created_at, updated_at
		) VALUES (
			:id, :key_value, :key_manager, :permissions, :metadata, :tenants_id,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, key)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return apikey.ErrAlreadyExists()
		}
		return errx.Wrap(err, "failed to create API key", errx.TypeInternal).
			WithDetail("key_id", key.ID)
	}
	return nil
}

func (r *PostgresAPIKeyRepository) FindByID(ctx context.Context, id string) (*apikey.APIKey, error) {
	var key apikey.APIKey
	query := `SELECT * FROM api_keys WHERE id = $1`
	err := r.db.GetContext(ctx, &key, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apikey.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find API key by id", errx.TypeInternal)
	}
	return &key, nil
}

func (r *PostgresAPIKeyRepository) FindByKey(ctx context.Context, keyValue string) (*apikey.APIKey, error) {
	var key apikey.APIKey
	query := `SELECT * FROM api_keys WHERE key_value = $1`
	err := r.db.GetContext(ctx, &key, query, keyValue)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apikey.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find API key by value", errx.TypeInternal)
	}
	return &key, nil
}

func (r *PostgresAPIKeyRepository) Update(ctx context.Context, key apikey.APIKey) error {
	query := `
		UPDATE api_keys SET
			key_value = :key_value,
			permissions = :permissions,
			metadata = :metadata,
			tenants_id = :tenants_id,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, key)
	if err != nil {
		return errx.Wrap(err, "failed to update API key", errx.TypeInternal).
			WithDetail("key_id", key.ID)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return apikey.ErrNotFound()
	}
	return nil
}

func (r *PostgresAPIKeyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return errx.Wrap(err, "failed to delete API key", errx.TypeInternal)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return apikey.ErrNotFound()
	}
	return nil
}
