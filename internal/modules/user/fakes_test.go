package user

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anand-5154/edurise-server/internal/config"
	"github.com/anand-5154/edurise-server/internal/notification"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	mu     sync.Mutex
	users  map[string]*User // by ID
	codes  map[string]*VerificationCode
	tokens map[string]*ActionToken
	states map[string]*OAuthState
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:  make(map[string]*User),
		codes:  make(map[string]*VerificationCode),
		tokens: make(map[string]*ActionToken),
		states: make(map[string]*OAuthState),
	}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
		if existing.Username == u.Username {
			return ErrUsernameExists
		}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = newHash
	return nil
}

func (f *fakeRepo) CreateVerificationCode(_ context.Context, vc *VerificationCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if vc.ID == "" {
		vc.ID = uuid.NewString()
	}
	cp := *vc
	f.codes[vc.ID] = &cp
	return nil
}

func (f *fakeRepo) GetActiveVerificationCode(_ context.Context, contact string, purpose VerificationPurpose) (*VerificationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *VerificationCode
	for _, vc := range f.codes {
		if vc.Contact != contact || vc.Purpose != purpose || vc.ConsumedAt != nil {
			continue
		}
		if latest == nil || vc.CreatedAt.After(latest.CreatedAt) {
			latest = vc
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeRepo) UpdateVerificationCodeForResend(_ context.Context, id, newHash string, newExpiresAt, lastSentAt time.Time, maxAttempts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	vc, ok := f.codes[id]
	if !ok || vc.ConsumedAt != nil {
		return ErrNotFound
	}
	vc.CodeHash = newHash
	vc.ExpiresAt = newExpiresAt
	vc.LastSentAt = lastSentAt
	vc.Attempts = 0
	vc.MaxAttempts = maxAttempts
	return nil
}

func (f *fakeRepo) IncrementVerificationAttempt(_ context.Context, id string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vc, ok := f.codes[id]
	if !ok || vc.ConsumedAt != nil {
		return 0, 0, ErrNotFound
	}
	vc.Attempts++
	return vc.Attempts, vc.MaxAttempts, nil
}

func (f *fakeRepo) ConsumeVerificationCode(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	vc, ok := f.codes[id]
	if !ok || vc.ConsumedAt != nil {
		return ErrNotFound
	}
	now := time.Now()
	vc.ConsumedAt = &now
	return nil
}

func (f *fakeRepo) CreateActionToken(_ context.Context, t *ActionToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cp := *t
	f.tokens[t.ID] = &cp
	return nil
}

func (f *fakeRepo) FindActionTokenByHash(_ context.Context, tokenHash, purpose string) (*ActionToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.TokenHash == tokenHash && t.Purpose == purpose && t.ConsumedAt == nil {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ConsumeActionToken(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok || t.ConsumedAt != nil {
		return ErrNotFound
	}
	now := time.Now()
	t.ConsumedAt = &now
	return nil
}

func (f *fakeRepo) InsertOAuthState(_ context.Context, state *OAuthState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *state
	f.states[state.State] = &cp
	return nil
}

func (f *fakeRepo) GetOAuthStateByState(_ context.Context, state string) (*OAuthState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.states[state]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeRepo) DeleteOAuthState(_ context.Context, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, state)
	return nil
}

// rewindLastSent pushes the active code's last_sent_at into the past so a
// test can resend without tripping the cooldown.
func (f *fakeRepo) rewindLastSent(contact string, purpose VerificationPurpose, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, vc := range f.codes {
		if vc.Contact == contact && vc.Purpose == purpose && vc.ConsumedAt == nil {
			vc.LastSentAt = vc.LastSentAt.Add(-d)
		}
	}
}

// expireActiveCode pushes the active code's expiry into the past.
func (f *fakeRepo) expireActiveCode(contact string, purpose VerificationPurpose) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, vc := range f.codes {
		if vc.Contact == contact && vc.Purpose == purpose && vc.ConsumedAt == nil {
			vc.ExpiresAt = time.Now().Add(-time.Second)
		}
	}
}

// fakeSessions is an in-memory session.Provider.
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]string // token -> userID
	counter  int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]string)}
}

func (f *fakeSessions) Create(_ context.Context, userID, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	token := fmt.Sprintf("refresh:test-%d", f.counter)
	f.sessions[token] = userID
	return token, nil
}

func (f *fakeSessions) GetAndExtend(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.sessions[token]
	if !ok {
		return "", fmt.Errorf("session not found")
	}
	return userID, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessions) DeleteAllForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, id := range f.sessions {
		if id == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

func (f *fakeSessions) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range f.sessions {
		if id == userID {
			n++
		}
	}
	return n
}

var codePattern = regexp.MustCompile(`\d{6}`)

// fakeNotifier records sent notifications so tests can pull the delivered
// one-time code out of the email body.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (f *fakeNotifier) Send(_ context.Context, n notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return codePattern.FindString(f.sent[len(f.sent)-1].Content.EmailHTMLBody)
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTTLMinutes: 15},
		OTP:  config.OTPConfig{TTLMinutes: 5, ResendCooldownSeconds: 60, MaxAttempts: 3},
	}
}

func newTestService() (Service, *fakeRepo, *fakeSessions, *fakeNotifier) {
	repo := newFakeRepo()
	sessions := newFakeSessions()
	notifier := &fakeNotifier{}
	svc := NewService(&Config{
		Repo:     repo,
		Sessions: sessions,
		Notifier: notifier,
		Logger:   slog.New(slog.DiscardHandler),
		Config:   testConfig(),
	})
	return svc, repo, sessions, notifier
}
