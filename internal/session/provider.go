package session

import (
	"context"
	"time"

	"github.com/anand-5154/edurise-server/internal/database"
)

// Config controls refresh session TTLs.
type Config struct {
	// SlidingTTL is the idle timeout. Each refresh extends last_active_at by
	// this duration. Default: 7 days.
	SlidingTTL time.Duration

	// AbsoluteTTL is the maximum lifetime from creation. After this duration
	// the session is invalid regardless of activity. Default: 30 days.
	AbsoluteTTL time.Duration
}

// Provider manages opaque refresh tokens. This is the explicit session object
// that replaces ambient client-side token storage: login creates a session,
// refresh validates and extends it, logout tears it down.
//
// Tokens are opaque, random, and prefixed with "refresh:".
type Provider interface {
	// Create mints a new refresh session for the given user and returns the
	// opaque token. Optional userAgent and ip are recorded for auditing.
	Create(ctx context.Context, userID string, userAgent string, ip string) (token string, err error)

	// GetAndExtend validates the token (including TTL checks) and extends the
	// sliding window. It returns the associated user ID on success.
	GetAndExtend(ctx context.Context, token string) (userID string, err error)

	// Delete revokes a session by its token. It is idempotent.
	Delete(ctx context.Context, token string) error

	// DeleteAllForUser revokes every session of a user (used when an account
	// is blocked or its password is reset).
	DeleteAllForUser(ctx context.Context, userID string) error
}

// NewPostgresProvider returns a Postgres-backed Provider implementation.
func NewPostgresProvider(db database.DBTX, cfg Config) Provider {
	return newPostgresProvider(db, cfg)
}
