package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Register starts a registration by issuing a one-time code for the email.
// The account itself is only created once the code is verified.
func (s *service) Register(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return ErrEmailExists
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Error("register: find user failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	code, err := s.issueVerificationCode(ctx, email, VerificationPurposeRegistration)
	if err != nil {
		return err
	}

	s.sendOTPEmail(ctx, email, "", code)
	s.logger.Info("registration code issued", "email", email)
	return nil
}

// VerifyRegistration finalizes a registration: it fails with ErrInvalidOTP
// unless a matching unexpired code exists, then creates the verified account
// and consumes the code. Instructors start in the pending approval state.
func (s *service) VerifyRegistration(ctx context.Context, input RegisterInput, code string) (*User, error) {
	if err := s.confirmVerificationCode(ctx, input.Email, VerificationPurposeRegistration, code); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		s.logger.Error("verify registration: hash password failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	status := AccountStatusActive
	role := input.Role
	if role == "" {
		role = RoleStudent
	}
	if role == RoleInstructor {
		status = AccountStatusPending
	}

	newUser := &User{
		ID:                id.String(),
		Name:              input.Name,
		Username:          input.Username,
		Email:             input.Email,
		PasswordHash:      hashedPassword,
		Phone:             input.Phone,
		Role:              role,
		AccountStatus:     status,
		EmailVerified:     true,
		Title:             input.Title,
		Education:         input.Education,
		YearsOfExperience: input.YearsOfExperience,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, ErrEmailExists) || errors.Is(err, ErrUsernameExists) {
			return nil, err
		}
		s.logger.Error("verify registration: create user failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("user registered", "user_id", newUser.ID, "role", newUser.Role)
	return newUser, nil
}

// ResendOTP invalidates any prior code for the email and issues a new one
// with a full expiry window. Unknown emails are treated as success for the
// reset purpose to avoid enumeration.
func (s *service) ResendOTP(ctx context.Context, email string, purpose VerificationPurpose) error {
	if purpose == VerificationPurposePasswordReset {
		if _, err := s.repo.FindByEmail(ctx, email); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return ErrInternal.WithCause(err)
		}
	}

	code, err := s.issueVerificationCode(ctx, email, purpose)
	if err != nil {
		return err
	}
	s.sendOTPEmail(ctx, email, "", code)
	return nil
}

// Login authenticates a user and returns an access/refresh token pair. When
// expectedRole is non-empty the account must carry that role, so the admin
// portal cannot be entered with student credentials.
func (s *service) Login(ctx context.Context, email, password string, expectedRole Role, userAgent, ip string) (*TokenPair, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Generic error so attackers cannot probe for registered emails.
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login: find user failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if expectedRole != "" && u.Role != expectedRole {
		return nil, ErrInvalidCredentials
	}

	if u.PasswordHash == "" || !checkPasswordHash(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if u.Blocked || u.AccountStatus == AccountStatusBlocked {
		return nil, ErrAccountBlocked
	}

	pair, err := s.issueTokenPair(ctx, u, userAgent, ip)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. Block
// status is rechecked so a revoked account cannot keep minting tokens.
func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.sessions.GetAndExtend(ctx, refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken.WithCause(err)
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidRefreshToken.WithCause(err)
		}
		return "", ErrInternal.WithCause(err)
	}
	if u.Blocked || u.AccountStatus == AccountStatusBlocked {
		_ = s.sessions.DeleteAllForUser(ctx, u.ID)
		return "", ErrAccountBlocked
	}

	return generateAccessToken(s.config.Auth.JWTSecret, u.ID, u.Role, s.accessTTL())
}

// Logout revokes the refresh session. It is idempotent.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.Delete(ctx, refreshToken)
}

func (s *service) issueTokenPair(ctx context.Context, u *User, userAgent, ip string) (*TokenPair, error) {
	access, err := generateAccessToken(s.config.Auth.JWTSecret, u.ID, u.Role, s.accessTTL())
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	refresh, err := s.sessions.Create(ctx, u.ID, userAgent, ip)
	if err != nil {
		s.logger.Error("failed to create refresh session", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) accessTTL() time.Duration {
	return time.Duration(s.config.Auth.AccessTTLMinutes) * time.Minute
}
