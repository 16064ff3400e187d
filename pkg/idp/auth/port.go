package auth

import "time"

// TokenClaims is the decoded form of a minted access token.
type TokenClaims struct {
	Subject   string    `json:"sub"`
	Issuer    string    `json:"iss"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService mints and verifies short-lived signed access tokens. The
// subject claim carries the id of the refresh token the access token was
// minted from.
type TokenService interface {
	GenerateAccessToken(subject string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}
