// Package credential issues, verifies and revokes the opaque tokens stored in
// the browser session under "authToken".
package credential

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// DefaultTTL is how long an issued credential stays valid.
const DefaultTTL = 24 * time.Hour

// ErrEmptyAccount is returned when issuing a credential without an account.
var ErrEmptyAccount = errors.New("account id cannot be empty")

// Grant is what a credential stands for.
type Grant struct {
	AccountID string    `json:"accountId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the grant has lapsed at now.
func (g Grant) Expired(now time.Time) bool {
	return !now.Before(g.ExpiresAt)
}

// Registry tracks live credentials.
type Registry interface {
	// Issue creates a credential for accountID.
	Issue(ctx context.Context, accountID string) (string, error)
	// Verify reports whether token is live. An unknown token is (false, nil).
	Verify(ctx context.Context, token string) (bool, error)
	// Revoke forgets token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
