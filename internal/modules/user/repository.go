package user

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/anand-5154/edurise-server/internal/database"
)

// Repository defines the database operations for the identity module.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error

	// One-time codes.
	CreateVerificationCode(ctx context.Context, vc *VerificationCode) error
	GetActiveVerificationCode(ctx context.Context, contact string, purpose VerificationPurpose) (*VerificationCode, error)
	UpdateVerificationCodeForResend(ctx context.Context, id string, newCodeHash string, newExpiresAt time.Time, lastSentAt time.Time, maxAttempts int) error
	IncrementVerificationAttempt(ctx context.Context, id string) (attempts int, maxAttempts int, err error)
	ConsumeVerificationCode(ctx context.Context, id string) error

	// Action tokens (password reset authorization).
	CreateActionToken(ctx context.Context, t *ActionToken) error
	FindActionTokenByHash(ctx context.Context, tokenHash string, purpose string) (*ActionToken, error)
	ConsumeActionToken(ctx context.Context, id string) error

	// OAuth states.
	InsertOAuthState(ctx context.Context, state *OAuthState) error
	GetOAuthStateByState(ctx context.Context, state string) (*OAuthState, error)
	DeleteOAuthState(ctx context.Context, state string) error
}

// repository implements Repository using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new identity repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
