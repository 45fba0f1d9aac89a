package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/anand-5154/edurise-server/internal/database"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

type postgresProvider struct {
	db  database.DBTX
	cfg Config
}

func newPostgresProvider(db database.DBTX, cfg Config) *postgresProvider {
	if cfg.SlidingTTL == 0 {
		cfg.SlidingTTL = 7 * 24 * time.Hour
	}
	if cfg.AbsoluteTTL == 0 {
		cfg.AbsoluteTTL = 30 * 24 * time.Hour
	}
	return &postgresProvider{db: db, cfg: cfg}
}

func (p *postgresProvider) Create(ctx context.Context, userID string, userAgent string, ip string) (string, error) {
	raw, err := randomOpaque(32)
	if err != nil {
		return "", err
	}
	token := "refresh:" + raw

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate session row id: %w", err)
	}

	now := time.Now()
	sql := `
		INSERT INTO user_sessions
			(id, user_id, session_token, user_agent, ip_address, last_active_at, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := p.db.Exec(ctx, sql, id.String(), userID, token, nullable(userAgent), nullable(ip), now, now); err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	return token, nil
}

func (p *postgresProvider) GetAndExtend(ctx context.Context, token string) (string, error) {
	if token == "" || !strings.HasPrefix(token, "refresh:") {
		return "", ErrNotFound
	}

	var (
		userID       string
		createdAt    time.Time
		lastActiveAt time.Time
	)
	query := `
		SELECT user_id, created_at, last_active_at
		FROM user_sessions
		WHERE session_token = $1
		LIMIT 1
	`
	err := p.db.QueryRow(ctx, query, token).Scan(&userID, &createdAt, &lastActiveAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	now := time.Now()
	if now.After(createdAt.Add(p.cfg.AbsoluteTTL)) || now.After(lastActiveAt.Add(p.cfg.SlidingTTL)) {
		// Expired sessions are removed eagerly.
		_ = p.Delete(ctx, token)
		return "", ErrExpired
	}

	if _, err := p.db.Exec(ctx, `UPDATE user_sessions SET last_active_at = $1 WHERE session_token = $2`, now, token); err != nil {
		return "", err
	}

	return userID, nil
}

func (p *postgresProvider) Delete(ctx context.Context, token string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM user_sessions WHERE session_token = $1`, token)
	return err
}

func (p *postgresProvider) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM user_sessions WHERE user_id = $1`, userID)
	return err
}

func randomOpaque(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
