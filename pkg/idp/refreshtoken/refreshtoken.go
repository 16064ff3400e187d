// Package refreshtoken holds the refresh-token domain: a long-lived secret
// bound to one user and one application, exchanged for short-lived access
// tokens until its own expiry. A token moves Active → Expired when its expiry
// instant passes and is terminal once deleted; nothing returns an expired
// token to active.
package refreshtoken

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oidc-lite/oidc-lite/pkg/kernel"
)

type RefreshToken struct {
	ID            string               `db:"id" json:"id"`
	Token         string               `db:"token" json:"token"`
	TokenHash     string               `db:"token_hash" json:"tokenHash"`
	TokenText     string               `db:"token_text" json:"tokenText"`
	ApplicationID kernel.ApplicationID `db:"applications_id" json:"applicationsId"`
	TenantID      kernel.TenantID      `db:"tenant_id" json:"tenantId"`
	UserID        kernel.UserID        `db:"users_id" json:"usersId"`

	// Expiry is an absolute instant in Unix milliseconds.
	Expiry int64 `db:"expiry" json:"expiry"`

	Data         string    `db:"data" json:"data"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	StartInstant int64     `db:"start_instant" json:"startInstant"`
}

// IsExpired reports whether the token's expiry instant has passed. An expired
// token must never mint a new access token.
func (t *RefreshToken) IsExpired() bool {
	return time.Now().UnixMilli() >= t.Expiry
}

// HashToken computes the stored hash of a token secret.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
