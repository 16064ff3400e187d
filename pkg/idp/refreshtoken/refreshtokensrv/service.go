// Package refreshtokensrv owns the refresh-token lifecycle: validation and
// rotation into new access tokens, lookups, and the multi-criteria deletion
// paths (by id, by token value, by user, by application, by user+application).
package refreshtokensrv

import (
	"context"
	"net/http"

	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/application"
	"github.com/oidc-lite/oidc-lite/pkg/idp/auth"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken"
	"github.com/oidc-lite/oidc-lite/pkg/idp/tenant"
	"github.com/oidc-lite/oidc-lite/pkg/idp/user"
	"github.com/oidc-lite/oidc-lite/pkg/kernel"
	"go.uber.org/zap"
)

// RouteRefreshTokens is the route the deletion paths are authorized against.
const RouteRefreshTokens = "/api/v1/refresh-tokens"

// RefreshResult is the outcome of a successful refresh: a newly minted access
// token and the id of the refresh token it was minted from.
type RefreshResult struct {
	AccessToken    string `json:"accessToken"`
	RefreshTokenID string `json:"refreshTokenId"`
}

type RefreshTokenService struct {
	repo            refreshtoken.Repository
	tenantRepo      tenant.Repository
	applicationRepo application.Repository
	userRepo        user.Repository
	tokens          auth.TokenService
	authorizer      refreshtoken.Authorizer
	log             *zap.Logger
}

func NewRefreshTokenService(
	repo refreshtoken.Repository,
	tenantRepo tenant.Repository,
	applicationRepo application.Repository,
	userRepo user.Repository,
	tokens auth.TokenService,
	authorizer refreshtoken.Authorizer,
	log *zap.Logger,
) *RefreshTokenService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RefreshTokenService{
		repo:            repo,
		tenantRepo:      tenantRepo,
		applicationRepo: applicationRepo,
		userRepo:        userRepo,
		tokens:          tokens,
		authorizer:      authorizer,
		log:             log,
	}
}

// Refresh exchanges a still-valid refresh token for a new short-lived access
// token carrying the refresh token's id as subject. The refresh secret itself
// is not rotated and its expiry is not extended.
func (s *RefreshTokenService) Refresh(ctx context.Context, refreshTokenValue string) (*RefreshResult, error) {
	if refreshTokenValue == "" {
		return nil, refreshtoken.ErrInvalidInput("refresh token is required")
	}

	stored, err := s.repo.FindByToken(ctx, refreshTokenValue)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil, refreshtoken.ErrInvalid()
		}
		return nil, refreshtoken.ErrStoreFailure(err)
	}

	if stored.IsExpired() {
		return nil, refreshtoken.ErrExpired()
	}

	accessToken, err := s.tokens.GenerateAccessToken(stored.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("access token minted from refresh token",
		zap.String("refresh_token_id", stored.ID),
		zap.String("user_id", stored.UserID.String()),
	)
	return &RefreshResult{
		AccessToken:    accessToken,
		RefreshTokenID: stored.ID,
	}, nil
}

// GetByID returns the refresh token stored under id.
func (s *RefreshTokenService) GetByID(ctx context.Context, id string) (*refreshtoken.RefreshToken, error) {
	if id == "" {
		return nil, refreshtoken.ErrInvalidInput("refresh token id is required")
	}
	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil, refreshtoken.ErrNotFound()
		}
		return nil, refreshtoken.ErrStoreFailure(err)
	}
	return stored, nil
}

// GetByUserID returns all refresh tokens of a user. The caller must supply a
// tenant scope (derived from request headers upstream); the referenced tenant
// must exist even though the result itself is keyed by user only.
func (s *RefreshTokenService) GetByUserID(ctx context.Context, userID, tenantID string) ([]*refreshtoken.RefreshToken, error) {
	if userID == "" {
		return nil, refreshtoken.ErrInvalidInput("user id is required")
	}
	if tenantID == "" {
		return nil, refreshtoken.ErrInvalidInput("tenant id is required")
	}

	if _, err := s.tenantRepo.FindByID(ctx, kernel.NewTenantID(tenantID)); err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil, refreshtoken.ErrInvalidInput("tenant does not exist")
		}
		return nil, refreshtoken.ErrStoreFailure(err)
	}

	tokens, err := s.repo.FindByUserID(ctx, kernel.NewUserID(userID))
	if err != nil {
		return nil, refreshtoken.ErrStoreFailure(err)
	}
	return tokens, nil
}

// DeleteByApplicationID removes every refresh token issued for an
// application. The authorization check is scoped to the application's tenant.
func (s *RefreshTokenService) DeleteByApplicationID(ctx context.Context, headers map[string]string, applicationID string) error {
	if applicationID == "" {
		return refreshtoken.ErrInvalidInput("application id is required")
	}

	app, err := s.applicationRepo.FindByID(ctx, kernel.NewApplicationID(applicationID))
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return refreshtoken.ErrInvalidInput("application does not exist")
		}
		return refreshtoken.ErrStoreFailure(err)
	}

	if err := s.authorize(ctx, headers, &app.TenantID); err != nil {
		return err
	}

	if err := s.repo.DeleteManyByApplicationID(ctx, app.ID); err != nil {
		return refreshtoken.ErrStoreFailure(err)
	}

	s.auditDeletion("application", applicationID)
	return nil
}

// DeleteByUserID removes every refresh token issued to a user. The
// authorization check here is tenant-unscoped, unlike the sibling deletion
// paths.
func (s *RefreshTokenService) DeleteByUserID(ctx context.Context, headers map[string]string, userID string) error {
	if userID == "" {
		return refreshtoken.ErrInvalidInput("user id is required")
	}

	u, err := s.userRepo.FindByID(ctx, kernel.NewUserID(userID))
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return refreshtoken.ErrInvalidInput("user does not exist")
		}
		return refreshtoken.ErrStoreFailure(err)
	}

	if err := s.authorize(ctx, headers, nil); err != nil {
		return err
	}

	if err := s.repo.DeleteManyByUserID(ctx, u.ID); err != nil {
		return refreshtoken.ErrStoreFailure(err)
	}

	s.auditDeletion("user", userID)
	return nil
}

// DeleteByUserAndApplicationID removes the refresh tokens matching both the
// user and the application; tokens of the same user under other applications
// are untouched.
func (s *RefreshTokenService) DeleteByUserAndApplicationID(ctx context.Context, headers map[string]string, userID, applicationID string) error {
	if userID == "" {
		return refreshtoken.ErrInvalidInput("user id is required")
	}
	if applicationID == "" {
		return refreshtoken.ErrInvalidInput("application id is required")
	}

	u, err := s.userRepo.FindByID(ctx, kernel.NewUserID(userID))
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return refreshtoken.ErrInvalidInput("user does not exist")
		}
		return refreshtoken.ErrStoreFailure(err)
	}

	app, err := s.applicationRepo.FindByID(ctx, kernel.NewApplicationID(applicationID))
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return refreshtoken.ErrInvalidInput("application does not exist")
		}
		return refreshtoken.ErrStoreFailure(err)
	}

	if err := s.authorize(ctx, headers, &app.TenantID); err != nil {
		return err
	}

	if err := s.repo.DeleteManyByUserAndApplicationID(ctx, u.ID, app.ID); err != nil {
		return refreshtoken.ErrStoreFailure(err)
	}

	s.auditDeletion("user+application", userID+"/"+applicationID)
	return nil
}

// DeleteByTokenID removes a single refresh token by its id. Authorization is
// scoped to the tenant of the token's application.
func (s *RefreshTokenService) DeleteByTokenID(ctx context.Context, headers map[string]string, id string) error {
	if id == "" {
		return refreshtoken.ErrInvalidInput("refresh token id is required")
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return refreshtoken.ErrInvalidInput("refresh token does not exist")
		}
		return refreshtoken.ErrStoreFailure(err)
	}

	if err := s.authorizeForToken(ctx, headers, stored); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, stored.ID); err != nil {
		return refreshtoken.ErrStoreFailure(err)
	}

	s.auditDeletion("token_id", stored.ID)
	return nil
}

// DeleteByToken removes a single refresh token by its secret value, with the
// same authorization scoping as DeleteByTokenID.
func (s *RefreshTokenService) DeleteByToken(ctx context.Context, headers map[string]string, tokenValue string) error {
	if tokenValue == "" {
		return refreshtoken.ErrInvalidInput("refresh token is required")
	}

	stored, err := s.repo.FindByToken(ctx, tokenValue)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return refreshtoken.ErrInvalidInput("refresh token does not exist")
		}
		return refreshtoken.ErrStoreFailure(err)
	}

	if err := s.authorizeForToken(ctx, headers, stored); err != nil {
		return err
	}

	if err := s.repo.DeleteByToken(ctx, stored.Token); err != nil {
		return refreshtoken.ErrStoreFailure(err)
	}

	s.auditDeletion("token", stored.ID)
	return nil
}

// authorizeForToken resolves the owning application to obtain the tenant the
// authorization check is scoped to.
func (s *RefreshTokenService) authorizeForToken(ctx context.Context, headers map[string]string, stored *refreshtoken.RefreshToken) error {
	app, err := s.applicationRepo.FindByID(ctx, stored.ApplicationID)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return refreshtoken.ErrInvalidInput("application does not exist")
		}
		return refreshtoken.ErrStoreFailure(err)
	}
	return s.authorize(ctx, headers, &app.TenantID)
}

func (s *RefreshTokenService) authorize(ctx context.Context, headers map[string]string, tenantID *kernel.TenantID) error {
	if err := s.authorizer.VerifyHeader(ctx, headers, tenantID, RouteRefreshTokens, http.MethodDelete); err != nil {
		if errx.IsType(err, errx.TypeAuthorization) {
			return err
		}
		return refreshtoken.ErrUnauthorized("authorization check failed")
	}
	return nil
}

func (s *RefreshTokenService) auditDeletion(scope, id string) {
	s.log.Info("refresh tokens deleted",
		zap.String("audit_event", "refresh_token_delete"),
		zap.String("scope", scope),
		zap.String("id", id),
	)
}
