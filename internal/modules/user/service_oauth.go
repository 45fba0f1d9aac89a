package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthProviderGoogle = "google"

func (s *service) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.config.Google.ClientID,
		ClientSecret: s.config.Google.ClientSecret,
		RedirectURL:  s.config.Google.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
	}
}

// InitiateOAuthLogin generates the Google consent URL with a persisted CSRF
// state and PKCE verifier.
func (s *service) InitiateOAuthLogin(ctx context.Context) (string, error) {
	state, err := generateSecureToken(32)
	if err != nil {
		return "", ErrInternal.WithCause(fmt.Errorf("failed to generate oauth state: %w", err))
	}
	verifier := oauth2.GenerateVerifier()

	err = s.repo.InsertOAuthState(ctx, &OAuthState{
		State:     state,
		Provider:  oauthProviderGoogle,
		Verifier:  verifier,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	})
	if err != nil {
		return "", ErrInternal.WithCause(fmt.Errorf("failed to persist oauth state: %w", err))
	}

	url := s.googleOAuthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
	return url, nil
}

// HandleOAuthCallback verifies the state, exchanges the code, fetches the
// Google profile, provisions a verified student account on first login, and
// returns a token pair.
func (s *service) HandleOAuthCallback(ctx context.Context, state, code string) (*TokenPair, error) {
	st, err := s.repo.GetOAuthStateByState(ctx, state)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOAuthStateInvalid.WithCause(err)
		}
		s.logger.Error("oauth callback: get state failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	if time.Now().After(st.ExpiresAt) {
		return nil, ErrOAuthStateExpired
	}
	defer func() { _ = s.repo.DeleteOAuthState(ctx, state) }()

	cfg := s.googleOAuthConfig()
	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(st.Verifier))
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(fmt.Errorf("failed to exchange oauth code: %w", err))
	}

	info, err := fetchGoogleUserInfo(ctx, cfg, token)
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}
	if info.Email == "" {
		return nil, ErrOAuthEmailMissing
	}

	u, err := s.repo.FindByEmail(ctx, info.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("oauth callback: find user failed", "error", err)
			return nil, ErrInternal.WithCause(err)
		}
		u, err = s.provisionOAuthUser(ctx, info)
		if err != nil {
			return nil, err
		}
	}

	if u.Blocked || u.AccountStatus == AccountStatusBlocked {
		return nil, ErrAccountBlocked
	}

	pair, err := s.issueTokenPair(ctx, u, "", "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in via oauth", "user_id", u.ID)
	return pair, nil
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func fetchGoogleUserInfo(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	client := cfg.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from google: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}
	return &info, nil
}

// provisionOAuthUser creates a verified, passwordless student account from a
// Google profile. The username is derived from the email local part plus a
// random suffix to dodge collisions.
func (s *service) provisionOAuthUser(ctx context.Context, info *googleUserInfo) (*User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	local, _, _ := strings.Cut(info.Email, "@")
	suffix, err := generateNumericCode(4)
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	u := &User{
		ID:            id.String(),
		Name:          info.Name,
		Username:      local + suffix,
		Email:         info.Email,
		Role:          RoleStudent,
		AccountStatus: AccountStatusActive,
		EmailVerified: true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("oauth callback: provision user failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("new user provisioned via oauth", "user_id", u.ID, "email", u.Email)
	return u, nil
}
