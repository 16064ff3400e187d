// Package refreshtokeninfra implements the refresh-token repository on
// PostgreSQL.
package refreshtokeninfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

type PostgresRefreshTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresRefreshTokenRepository(db *sqlx.DB) refreshtoken.Repository {
	return &PostgresRefreshTokenRepository{db: db}
}

func (r *PostgresRefreshTokenRepository) Create(ctx context.Context, token refreshtoken.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (
			id, token, token_hash, token_text, applications_id, tenant_id,
			users_id, expiry, data, created_at, start_instant
		) VALUES (
			:id, :token, :token_hash, :token_text, :applications_id, :tenant_id,
			:users_id, :expiry, :data, :created_at, :start_instant
		)`

	_, err := r.db.NamedExecContext(ctx, query, token)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return errx.Conflict("refresh token already exists")
		}
		return errx.Wrap(err, "failed to create refresh token", errx.TypeInternal).
			WithDetail("token_id", token.ID)
	}
	return nil
}

func (r *PostgresRefreshTokenRepository) FindByID(ctx context.Context, id string) (*refreshtoken.RefreshToken, error) {
	var token refreshtoken.RefreshToken
	err := r.db.GetContext(ctx, &token, `SELECT * FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, refreshtoken.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find refresh token by id", errx.TypeInternal)
	}
	return &token, nil
}

func (r *PostgresRefreshTokenRepository) FindByToken(ctx context.Context, tokenValue string) (*refreshtoken.RefreshToken, error) {
	var token refreshtoken.RefreshToken
	err := r.db.GetContext(ctx, &token, `SELECT * FROM refresh_tokens WHERE token = $1`, tokenValue)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, refreshtoken.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find refresh token by value", errx.TypeInternal)
	}
	return &token, nil
}

func (r *PostgresRefreshTokenRepository) FindByUserID(ctx context.Context, userID kernel.UserID) ([]*refreshtoken.RefreshToken, error) {
	var tokens []*refreshtoken.RefreshToken
	err := r.db.SelectContext(ctx, &tokens,
		`SELECT * FROM refresh_tokens WHERE users_id = $1 ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to find refresh tokens by user", errx.TypeInternal)
	}
	return tokens, nil
}

func (r *PostgresRefreshTokenRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		return errx.Wrap(err, "failed to delete refresh token", errx.TypeInternal)
	}
	return requireRowsAffected(result)
}

func (r *PostgresRefreshTokenRepository) DeleteByToken(ctx context.Context, tokenValue string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, tokenValue)
	if err != nil {
		return errx.Wrap(err, "failed to delete refresh token", errx.TypeInternal)
	}
	return requireRowsAffected(result)
}

func (r *PostgresRefreshTokenRepository) DeleteManyByApplicationID(ctx context.Context, applicationID kernel.ApplicationID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE applications_id = $1`, applicationID.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete refresh tokens by application", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresRefreshTokenRepository) DeleteManyByUserID(ctx context.Context, userID kernel.UserID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE users_id = $1`, userID.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete refresh tokens by user", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresRefreshTokenRepository) DeleteManyByUserAndApplicationID(ctx context.Context, userID kernel.UserID, applicationID kernel.ApplicationID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE users_id = $1 AND applications_id = $2`,
		userID.String(), applicationID.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete refresh tokens by user and application", errx.TypeInternal)
	}
	return nil
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return refreshtoken.ErrNotFound()
	}
	return nil
}
