package ports

import (
	"context"
	"time"
)

// TokenStore persists revoked refresh-token identifiers. Revocations carry
// the token's expiry so the store can drop entries that no longer matter.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpired deletes revocations whose tokens expired before now and
	// reports how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
