// Package idpcontainer composes the credential and token lifecycle module:
// repositories, services, HTTP handlers, and the background OTP sweeper.
package idpcontainer

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/oidc-lite/oidc-lite/pkg/config"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey/apikeyapi"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey/apikeyinfra"
	"github.com/oidc-lite/oidc-lite/pkg/idp/apikey/apikeysrv"
	"github.com/oidc-lite/oidc-lite/pkg/idp/application/applicationinfra"
	"github.com/oidc-lite/oidc-lite/pkg/idp/auth"
	"github.com/oidc-lite/oidc-lite/pkg/idp/otp"
	"github.com/oidc-lite/oidc-lite/pkg/idp/otp/otpapi"
	"github.com/oidc-lite/oidc-lite/pkg/idp/otp/otpinfra"
	"github.com/oidc-lite/oidc-lite/pkg/idp/otp/otpsrv"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken/refreshtokenapi"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken/refreshtokeninfra"
	"github.com/oidc-lite/oidc-lite/pkg/idp/refreshtoken/refreshtokensrv"
	"github.com/oidc-lite/oidc-lite/pkg/idp/tenant/tenantinfra"
	"github.com/oidc-lite/oidc-lite/pkg/idp/user/userinfra"
	"github.com/oidc-lite/oidc-lite/pkg/notifx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the external dependencies this module requires. Redis is optional;
// nil disables OTP send rate limiting.
type Deps struct {
	DB    *sqlx.DB
	Redis *redis.Client
	Cfg   *config.Config
	Mux   *notifx.Mux
	Log   *zap.Logger
}

// Container is the public surface of the module: services and handlers the
// composition root wires into the HTTP server, plus the background sweeper.
type Container struct {
	APIKeyService       *apikeysrv.APIKeyService
	OTPService          *otpsrv.DispatchService
	RefreshTokenService *refreshtokensrv.RefreshTokenService
	TokenService        auth.TokenService

	APIKeyHandlers       *apikeyapi.APIKeyHandlers
	OTPHandlers          *otpapi.OTPHandlers
	RefreshTokenHandlers *refreshtokenapi.RefreshTokenHandlers

	OTPSweeper *otp.Sweeper
}

// New constructs the module dependency graph: infra, then services, then
// handlers.
func New(deps Deps) *Container {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	c := &Container{}

	// Repositories
	apiKeyRepo := apikeyinfra.NewPostgresAPIKeyRepository(deps.DB)
	refreshTokenRepo := refreshtokeninfra.NewPostgresRefreshTokenRepository(deps.DB)
	tenantRepo := tenantinfra.NewPostgresTenantRepository(deps.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(deps.DB)
	userRepo := userinfra.NewPostgresUserRepository(deps.DB)

	// OTP store and sweep
	otpStore := otp.NewStore(deps.Cfg.OTP.Expiry)
	c.OTPSweeper = otp.NewSweeper(otpStore, deps.Cfg.OTP.SweepInterval, log)

	var limiter otp.RateLimiter
	if deps.Redis != nil {
		limiter = otpinfra.NewRedisRateLimiter(deps.Redis, deps.Cfg.OTP.SendCooldown)
	}

	// Services
	c.TokenService = auth.NewJWTServiceFromConfig(&deps.Cfg.Auth.JWT)
	c.APIKeyService = apikeysrv.NewAPIKeyService(apiKeyRepo, log)
	c.OTPService = otpsrv.NewDispatchService(otpStore, deps.Mux, limiter, log)
	c.RefreshTokenService = refreshtokensrv.NewRefreshTokenService(
		refreshTokenRepo,
		tenantRepo,
		applicationRepo,
		userRepo,
		c.TokenService,
		apikeysrv.NewHeaderVerifier(apiKeyRepo),
		log,
	)

	// Handlers
	c.APIKeyHandlers = apikeyapi.NewAPIKeyHandlers(c.APIKeyService)
	c.OTPHandlers = otpapi.NewOTPHandlers(c.OTPService)
	c.RefreshTokenHandlers = refreshtokenapi.NewRefreshTokenHandlers(c.RefreshTokenService)

	return c
}

// StartBackgroundServices launches the OTP expiry sweep.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	c.OTPSweeper.Start(ctx)
}

// StopBackgroundServices stops the OTP expiry sweep and waits for it.
func (c *Container) StopBackgroundServices() {
	c.OTPSweeper.Stop()
}
