package config

import "time"

// AuthConfig configures access-token signing.
type AuthConfig struct {
	JWT JWTConfig
}

// JWTConfig holds the signing secret and TTL for access tokens minted on a
// successful refresh.
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "change-me-in-production"),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "oidc-lite"),
		},
	}
}
