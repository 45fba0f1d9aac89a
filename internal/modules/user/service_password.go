package user

import (
	"context"
	"errors"
	"time"
)

const resetTokenPurpose = "password_reset"
const resetTokenTTL = 15 * time.Minute

// ForgotPassword issues a reset code for the email. Unknown emails return
// nil to prevent enumeration; the code purpose keeps reset codes separate
// from registration codes.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Info("password reset requested for unknown email", "email", email)
			return nil
		}
		s.logger.Error("forgot password: find user failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	code, err := s.issueVerificationCode(ctx, email, VerificationPurposePasswordReset)
	if err != nil {
		return err
	}

	s.sendOTPEmail(ctx, email, u.Name, code)
	return nil
}

// VerifyResetOTP consumes a valid reset code and returns a one-shot token
// authorizing the actual password change.
func (s *service) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Indistinguishable from a wrong code.
			return "", ErrInvalidOTP
		}
		s.logger.Error("verify reset otp: find user failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	if err := s.confirmVerificationCode(ctx, email, VerificationPurposePasswordReset, code); err != nil {
		return "", err
	}

	token, err := generateSecureToken(32)
	if err != nil {
		s.logger.Error("verify reset otp: generate token failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	at := &ActionToken{
		UserID:    u.ID,
		Purpose:   resetTokenPurpose,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.repo.CreateActionToken(ctx, at); err != nil {
		s.logger.Error("verify reset otp: store token failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	return token, nil
}

// ResetPassword validates the one-shot token, sets the new password, and
// revokes every refresh session of the account.
func (s *service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return ErrInvalidResetToken
	}

	at, err := s.repo.FindActionTokenByHash(ctx, hashToken(resetToken), resetTokenPurpose)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidResetToken
		}
		s.logger.Error("reset password: find token failed", "error", err)
		return ErrInternal.WithCause(err)
	}
	if time.Now().After(at.ExpiresAt) {
		return ErrInvalidResetToken
	}

	newHash, err := hashPassword(newPassword)
	if err != nil {
		s.logger.Error("reset password: hash failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	if err := s.repo.ConsumeActionToken(ctx, at.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost a race against another consumer of the same token.
			return ErrInvalidResetToken
		}
		s.logger.Error("reset password: consume token failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	if err := s.repo.UpdatePassword(ctx, at.UserID, newHash); err != nil {
		s.logger.Error("reset password: update failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	// Existing sessions are no longer trustworthy after a reset.
	if err := s.sessions.DeleteAllForUser(ctx, at.UserID); err != nil {
		s.logger.Error("reset password: revoke sessions failed", "error", err)
	}

	s.logger.Info("password reset completed", "user_id", at.UserID)
	return nil
}
