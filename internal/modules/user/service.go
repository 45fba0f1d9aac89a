package user

import (
	"context"
	"log/slog"

	"github.com/anand-5154/edurise-server/internal/config"
	"github.com/anand-5154/edurise-server/internal/notification"
	"github.com/anand-5154/edurise-server/internal/session"
)

// RegisterInput carries the profile fields submitted together with the OTP
// when a registration is finalized. The client holds these transitively
// between requesting the code and confirming it.
type RegisterInput struct {
	Name              string
	Username          string
	Email             string
	Phone             string
	Password          string
	Role              Role
	Title             string
	Education         []string
	YearsOfExperience []string
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Name              *string
	Phone             *string
	Title             *string
	Education         []string
	YearsOfExperience []string
	VerificationDoc   *string
}

// Service defines the business logic of the identity module.
type Service interface {
	// Registration: request a code, then finalize with it.
	Register(ctx context.Context, email string) error
	VerifyRegistration(ctx context.Context, input RegisterInput, code string) (*User, error)
	ResendOTP(ctx context.Context, email string, purpose VerificationPurpose) error

	// Sessions.
	Login(ctx context.Context, email, password string, expectedRole Role, userAgent, ip string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error

	// Password reset: request code, verify it for a one-shot token, set password.
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email, code string) (resetToken string, err error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error

	// Social login (Google).
	InitiateOAuthLogin(ctx context.Context) (redirectURL string, err error)
	HandleOAuthCallback(ctx context.Context, state, code string) (*TokenPair, error)

	// Profile.
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error)
}

// service implements the Service interface.
type service struct {
	repo     Repository
	sessions session.Provider
	notifier notification.Service
	logger   *slog.Logger
	config   *config.Config
}

// Config holds the dependencies for the identity service.
type Config struct {
	Repo     Repository
	Sessions session.Provider
	Notifier notification.Service
	Logger   *slog.Logger
	Config   *config.Config
}

// NewService creates a new identity service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:     cfg.Repo,
		sessions: cfg.Sessions,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		config:   cfg.Config,
	}
}
