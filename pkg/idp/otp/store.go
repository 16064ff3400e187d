// Package otp implements one-time passcode issuance and single-use
// validation. Outstanding codes live entirely in process memory; a restart
// clears them all, which is acceptable for short-lived passcodes.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// DefaultCodeLength is the number of digits in a generated passcode.
const DefaultCodeLength = 6

// Store tracks outstanding codes and their expiry instants. All operations
// are safe for concurrent use; validation consumes atomically so two
// concurrent validations of the same code can never both succeed.
type Store struct {
	mu     sync.Mutex
	codes  map[string]time.Time
	expiry time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewStore creates a store whose codes expire after the given window. The
// window is fixed at construction; changing configuration later does not
// affect codes already issued.
func NewStore(expiry time.Duration) *Store {
	return &Store{
		codes:  make(map[string]time.Time),
		expiry: expiry,
		now:    time.Now,
	}
}

// Generate draws a cryptographically secure code of the given length
// (DefaultCodeLength when length <= 0), records its expiry, and returns it.
// A collision with an outstanding code overwrites the prior expiry.
func (s *Store) Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	code, err := generateCode(length)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.codes[code] = s.now().Add(s.expiry)
	s.mu.Unlock()

	return code, nil
}

// Validate consumes code on success. An unknown code returns false; an
// expired code returns false and is removed eagerly, so a second validate of
// the same code always returns false either way.
func (s *Store) Validate(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.codes[code]
	if !ok {
		return false
	}
	delete(s.codes, code)
	return s.now().Before(expiresAt)
}

// SweepExpired removes every code whose expiry instant has passed and returns
// how many were removed. Intended to run on a fixed interval, independent of
// validation calls.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for code, expiresAt := range s.codes {
		if !now.Before(expiresAt) {
			delete(s.codes, code)
			removed++
		}
	}
	return removed
}

// Remove discards a code without validating it (explicit timeout/reset).
func (s *Store) Remove(code string) {
	s.mu.Lock()
	delete(s.codes, code)
	s.mu.Unlock()
}

// Len returns the number of outstanding codes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

// generateCode draws a secure random integer in [10^(length-1), 10^length)
// so the code always has exactly `length` digits.
func generateCode(length int) (string, error) {
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	high := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)

	n, err := rand.Int(rand.Reader, new(big.Int).Sub(high, low))
	if err != nil {
		return "", err
	}
	n.Add(n, low)

	return fmt.Sprintf("%d", n), nil
}
