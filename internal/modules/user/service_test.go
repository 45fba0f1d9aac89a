package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(email string, role Role) RegisterInput {
	return RegisterInput{
		Name:     "Test User",
		Username: "testuser-" + string(role),
		Email:    email,
		Password: "s3cret-pass",
		Role:     role,
	}
}

func TestRegistrationFlow(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice@example.com"))
	code := notifier.lastCode()
	require.Len(t, code, 6)

	u, err := svc.VerifyRegistration(ctx, registerInput("alice@example.com", RoleStudent), code)
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, u.Role)
	assert.Equal(t, AccountStatusActive, u.AccountStatus)
	assert.True(t, u.EmailVerified)
	assert.NotEmpty(t, u.ID)
}

func TestRegistrationFlow_InstructorStartsPending(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "bob@example.com"))

	u, err := svc.VerifyRegistration(ctx, registerInput("bob@example.com", RoleInstructor), notifier.lastCode())
	require.NoError(t, err)
	assert.Equal(t, RoleInstructor, u.Role)
	assert.Equal(t, AccountStatusPending, u.AccountStatus)
}

func TestRegister_ExistingEmail(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "carol@example.com"))
	_, err := svc.VerifyRegistration(ctx, registerInput("carol@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Register(ctx, "carol@example.com"), ErrEmailExists)
}

func TestVerifyRegistration_WrongCode(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "dave@example.com"))

	_, err := svc.VerifyRegistration(ctx, registerInput("dave@example.com", RoleStudent), "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyRegistration_ExpiredCode(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "erin@example.com"))
	code := notifier.lastCode()

	repo.expireActiveCode("erin@example.com", VerificationPurposeRegistration)

	_, err := svc.VerifyRegistration(ctx, registerInput("erin@example.com", RoleStudent), code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyRegistration_CodeIsSingleUse(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "frank@example.com"))
	code := notifier.lastCode()

	_, err := svc.VerifyRegistration(ctx, registerInput("frank@example.com", RoleStudent), code)
	require.NoError(t, err)

	// The consumed code must not verify a second registration attempt.
	in := registerInput("frank@example.com", RoleStudent)
	in.Username = "frank-two"
	_, err = svc.VerifyRegistration(ctx, in, code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestResendOTP_InvalidatesPreviousCode(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "grace@example.com"))
	oldCode := notifier.lastCode()

	repo.rewindLastSent("grace@example.com", VerificationPurposeRegistration, 2*time.Minute)
	require.NoError(t, svc.ResendOTP(ctx, "grace@example.com", VerificationPurposeRegistration))
	newCode := notifier.lastCode()
	require.NotEqual(t, oldCode, newCode)

	_, err := svc.VerifyRegistration(ctx, registerInput("grace@example.com", RoleStudent), oldCode)
	assert.ErrorIs(t, err, ErrInvalidOTP)

	_, err = svc.VerifyRegistration(ctx, registerInput("grace@example.com", RoleStudent), newCode)
	assert.NoError(t, err)
}

func TestResendOTP_Cooldown(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "heidi@example.com"))
	assert.ErrorIs(t, svc.ResendOTP(ctx, "heidi@example.com", VerificationPurposeRegistration), ErrResendTooSoon)
}

func TestVerify_TooManyAttempts(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "ivan@example.com"))
	in := registerInput("ivan@example.com", RoleStudent)

	// MaxAttempts is 3 in the test config: two bad tries, then lockout.
	_, err := svc.VerifyRegistration(ctx, in, "111111")
	assert.ErrorIs(t, err, ErrInvalidOTP)
	_, err = svc.VerifyRegistration(ctx, in, "222222")
	assert.ErrorIs(t, err, ErrInvalidOTP)
	_, err = svc.VerifyRegistration(ctx, in, "333333")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// The real code was issued but the lockout has burned the record's
	// attempt budget; the correct code can still consume it.
	_ = notifier.lastCode()
}

func TestLogin(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "judy@example.com"))
	_, err := svc.VerifyRegistration(ctx, registerInput("judy@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "judy@example.com", "s3cret-pass", RoleStudent, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "kate@example.com"))
	_, err := svc.VerifyRegistration(ctx, registerInput("kate@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "kate@example.com", "wrong", RoleStudent, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever", RoleStudent, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RoleMismatch(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "leo@example.com"))
	_, err := svc.VerifyRegistration(ctx, registerInput("leo@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	// A student cannot log in through the admin portal.
	_, err = svc.Login(ctx, "leo@example.com", "s3cret-pass", RoleAdmin, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BlockedAccount(t *testing.T) {
	svc, repo, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "mallory@example.com"))
	u, err := svc.VerifyRegistration(ctx, registerInput("mallory@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	u.Blocked = true
	require.NoError(t, repo.Update(ctx, u))

	_, err = svc.Login(ctx, "mallory@example.com", "s3cret-pass", RoleStudent, "", "")
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestRefresh_BlockedAccountRevokesSessions(t *testing.T) {
	svc, repo, sessions, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "nick@example.com"))
	u, err := svc.VerifyRegistration(ctx, registerInput("nick@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "nick@example.com", "s3cret-pass", RoleStudent, "", "")
	require.NoError(t, err)

	u.Blocked = true
	require.NoError(t, repo.Update(ctx, u))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrAccountBlocked)
	assert.Zero(t, sessions.count(u.ID))
}

func TestLogout_IsIdempotent(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "olga@example.com"))
	_, err := svc.VerifyRegistration(ctx, registerInput("olga@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "olga@example.com", "s3cret-pass", RoleStudent, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, sessions, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "pam@example.com"))
	u, err := svc.VerifyRegistration(ctx, registerInput("pam@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "pam@example.com", "s3cret-pass", RoleStudent, "", "")
	require.NoError(t, err)
	require.Equal(t, 1, sessions.count(u.ID))

	require.NoError(t, svc.ForgotPassword(ctx, "pam@example.com"))
	code := notifier.lastCode()

	resetToken, err := svc.VerifyResetOTP(ctx, "pam@example.com", code)
	require.NoError(t, err)
	require.NotEmpty(t, resetToken)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "new-pass-123"))

	// Old sessions revoked, old password dead, new password live.
	assert.Zero(t, sessions.count(u.ID))
	_, err = svc.Login(ctx, "pam@example.com", "s3cret-pass", RoleStudent, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "pam@example.com", "new-pass-123", RoleStudent, "", "")
	assert.NoError(t, err)
}

func TestResetPassword_TokenIsSingleUse(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "quinn@example.com"))
	_, err := svc.VerifyRegistration(ctx, registerInput("quinn@example.com", RoleStudent), notifier.lastCode())
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "quinn@example.com"))
	resetToken, err := svc.VerifyResetOTP(ctx, "quinn@example.com", notifier.lastCode())
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "first-new-pass"))
	assert.ErrorIs(t, svc.ResetPassword(ctx, resetToken, "second-new-pass"), ErrInvalidResetToken)
}

func TestVerifyResetOTP_RegistrationCodeDoesNotCross(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "rita@example.com"))
	registrationCode := notifier.lastCode()
	_, err := svc.VerifyRegistration(ctx, registerInput("rita@example.com", RoleStudent), registrationCode)
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "rita@example.com"))

	// A code issued for registration must not satisfy the reset purpose.
	_, err = svc.VerifyResetOTP(ctx, "rita@example.com", registrationCode)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, _, _, notifier := newTestService()

	require.NoError(t, svc.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Empty(t, notifier.sent)
}
