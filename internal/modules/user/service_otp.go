package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/anand-5154/edurise-server/internal/notification"
)

// issueVerificationCode creates or refreshes the active code for a contact
// and purpose, enforcing the resend cooldown. Refreshing replaces the stored
// hash, so any previously issued code stops verifying from that moment. The
// plaintext code is returned for delivery and never stored.
func (s *service) issueVerificationCode(ctx context.Context, contact string, purpose VerificationPurpose) (string, error) {
	ttl := time.Duration(s.config.OTP.TTLMinutes) * time.Minute
	cooldown := time.Duration(s.config.OTP.ResendCooldownSeconds) * time.Second
	maxAttempts := s.config.OTP.MaxAttempts

	active, err := s.repo.GetActiveVerificationCode(ctx, contact, purpose)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("issue code: get active failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	now := time.Now()
	if active != nil && now.Sub(active.LastSentAt) < cooldown {
		return "", ErrResendTooSoon
	}

	code, err := generateNumericCode(6)
	if err != nil {
		s.logger.Error("issue code: generate failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}
	hash := hashToken(code)
	expiresAt := now.Add(ttl)

	if active != nil {
		err := s.repo.UpdateVerificationCodeForResend(ctx, active.ID, hash, expiresAt, now, maxAttempts)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("issue code: refresh failed", "error", err)
			return "", ErrInternal.WithCause(err)
		}
		// A race consumed the record; fall through and create a new one.
	}

	vc := &VerificationCode{
		Contact:     contact,
		Purpose:     purpose,
		CodeHash:    hash,
		Attempts:    0,
		MaxAttempts: maxAttempts,
		LastSentAt:  now,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	}
	if err := s.repo.CreateVerificationCode(ctx, vc); err != nil {
		s.logger.Error("issue code: create failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}
	return code, nil
}

// confirmVerificationCode validates a code against the active record for the
// contact and purpose, consuming it on success. Expired, consumed, or
// mismatched codes all fail with ErrInvalidOTP; repeated mismatches trip
// ErrTooManyAttempts.
func (s *service) confirmVerificationCode(ctx context.Context, contact string, purpose VerificationPurpose, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrInvalidOTP
	}

	vc, err := s.repo.GetActiveVerificationCode(ctx, contact, purpose)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidOTP
		}
		s.logger.Error("confirm code: get active failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	if time.Now().After(vc.ExpiresAt) {
		return ErrInvalidOTP
	}

	hashed := hashToken(code)
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(vc.CodeHash)) != 1 {
		attempts, max, incErr := s.repo.IncrementVerificationAttempt(ctx, vc.ID)
		if incErr != nil && !errors.Is(incErr, ErrNotFound) {
			s.logger.Error("confirm code: increment attempts failed", "error", incErr)
			return ErrInternal.WithCause(incErr)
		}
		if attempts >= max {
			return ErrTooManyAttempts
		}
		return ErrInvalidOTP
	}

	if err := s.repo.ConsumeVerificationCode(ctx, vc.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// A concurrent verification won; the code is spent either way.
			return ErrInvalidOTP
		}
		s.logger.Error("confirm code: consume failed", "error", err)
		return ErrInternal.WithCause(err)
	}
	return nil
}

// sendOTPEmail dispatches a one-time code, best effort.
func (s *service) sendOTPEmail(ctx context.Context, email, name, code string) {
	_ = s.notifier.Send(ctx, notification.Notification{
		Recipient: email,
		Channels:  []notification.Channel{notification.ChannelEmail},
		Priority:  notification.PriorityHigh,
		Content:   notification.OTPEmail(name, code, s.config.OTP.TTLMinutes),
	})
}
