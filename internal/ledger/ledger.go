// Package ledger records which issued tokens are still honoured. A token that
// verifies cryptographically is only usable while it is active here.
package ledger

import (
	"context"       // Request-scoped calls
	"crypto/sha256" // Token key digest
	"encoding/hex"  // Key encoding
)

// Ledger is the set of currently active tokens. Deactivate is one-shot: a
// second call for the same token returns domain.ErrNotActive.
type Ledger interface {
	Activate(ctx context.Context, token string, userID uint) error
	Deactivate(ctx context.Context, token string) error
	IsActive(ctx context.Context, token string) (bool, error)
	DeactivateUser(ctx context.Context, userID uint) (int, error)
}

// Key derives the stored membership key from a token. The raw token is never
// persisted.
func Key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
