package user

import (
	"time"
)

// Role tags an account as a learner, a course author, or a moderator.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// AccountStatus is the instructor approval lifecycle. Students and admins
// are created active.
type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusActive   AccountStatus = "active"
	AccountStatusRejected AccountStatus = "rejected"
	AccountStatusBlocked  AccountStatus = "blocked"
)

// User is the core identity entity shared by students, instructors, and
// admins. Instructor-only profile fields are empty for other roles.
// PasswordHash is empty for OAuth-only accounts.
type User struct {
	ID            string        `db:"id"`
	Name          string        `db:"name"`
	Username      string        `db:"username"`
	Email         string        `db:"email"`
	PasswordHash  string        `db:"password_hash"`
	Phone         string        `db:"phone"`
	Role          Role          `db:"role"`
	Blocked       bool          `db:"blocked"`
	AccountStatus AccountStatus `db:"account_status"`
	EmailVerified bool          `db:"email_verified"`

	// Instructor profile.
	Title              string   `db:"title"`
	Education          []string `db:"education"`
	YearsOfExperience  []string `db:"years_of_experience"`
	VerificationDocURL string   `db:"verification_doc_url"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// VerificationPurpose defines the reason a 6-digit code is issued. Codes are
// scoped by purpose: a registration code can never satisfy a reset flow.
type VerificationPurpose string

const (
	VerificationPurposeRegistration  VerificationPurpose = "registration"
	VerificationPurposePasswordReset VerificationPurpose = "password_reset"
)

// VerificationCode represents a one-time 6-digit code issued to an email
// address. Only the hash is stored; the expiry window is enforced at
// verification time and the record is consumed by a single success.
type VerificationCode struct {
	ID          string              `db:"id"`
	Contact     string              `db:"contact"`
	Purpose     VerificationPurpose `db:"purpose"`
	CodeHash    string              `db:"code_hash"`
	Attempts    int                 `db:"attempts"`
	MaxAttempts int                 `db:"max_attempts"`
	LastSentAt  time.Time           `db:"last_sent_at"`
	ExpiresAt   time.Time           `db:"expires_at"`
	ConsumedAt  *time.Time          `db:"consumed_at"`
	CreatedAt   time.Time           `db:"created_at"`
}

// ActionToken is a short-lived opaque token authorizing a sensitive action.
// The reset flow issues one after a successful OTP verification so that
// setting the new password is a separate, single-use step.
type ActionToken struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	Purpose    string     `db:"purpose"`
	TokenHash  string     `db:"token_hash"`
	ExpiresAt  time.Time  `db:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// OAuthState is the persisted CSRF state + PKCE verifier for a social login
// round trip.
type OAuthState struct {
	State     string    `db:"state"`
	Provider  string    `db:"provider"`
	Verifier  string    `db:"verifier"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
