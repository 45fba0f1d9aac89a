package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/anand-5154/edurise-server/internal/contextx"
	"github.com/anand-5154/edurise-server/internal/httpx"
)

// Claims defines the JWT claims carried by access tokens. The role claim is
// what lets a single guard serve student, instructor, and admin routes.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// RequireRole returns a router-agnostic huma middleware that validates a
// bearer JWT and injects the subject and role into the request context. When
// roles are given, the token's role must be one of them; with no roles any
// authenticated user passes. Failures are written as RFC 7807 problems.
func RequireRole(jwtSecret string, logger *slog.Logger, roles ...string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)

		writeProblem := func(status int, code, detail string) {
			p := &httpx.Problem{
				Type:      "urn:problem:auth/" + strings.ToLower(code),
				Title:     http.StatusText(status),
				Status:    status,
				Detail:    detail,
				Code:      code,
				RequestID: chimw.GetReqID(r.Context()),
			}
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(p.GetStatus())
			_ = json.NewEncoder(w).Encode(p)
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeProblem(http.StatusUnauthorized, "ErrUnauthorized", "missing authorization header")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			writeProblem(http.StatusUnauthorized, "ErrUnauthorized", "invalid authorization header format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("invalid jwt token", "error", err)
			writeProblem(http.StatusUnauthorized, "ErrUnauthorized", "invalid or expired token")
			return
		}
		if claims.Subject == "" {
			writeProblem(http.StatusUnauthorized, "ErrUnauthorized", "invalid token claims")
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				writeProblem(http.StatusForbidden, "ErrForbidden", "insufficient role for this resource")
				return
			}
		}

		ctx = huma.WithValue(ctx, contextx.UserIDKey, claims.Subject)
		ctx = huma.WithValue(ctx, contextx.RoleKey, claims.Role)
		next(ctx)
	}
}
