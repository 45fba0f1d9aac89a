package user

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Handler holds the dependencies for the identity module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
	auth    func(huma.Context, func(huma.Context))
}

// NewHandler creates a new handler for the identity module. auth is the
// shared role guard used for profile routes.
func NewHandler(service Service, logger *slog.Logger, auth func(huma.Context, func(huma.Context))) *Handler {
	return &Handler{service: service, logger: logger, auth: auth}
}

// RegisterRoutes sets up the identity endpoints. The same handlers serve the
// student, instructor, and admin prefixes; only the role parameter differs.
func (h *Handler) RegisterRoutes(api huma.API) {
	h.registerAuthRoutes(api, "/users", RoleStudent, true)
	h.registerAuthRoutes(api, "/instructors", RoleInstructor, true)
	h.registerAuthRoutes(api, "/admin", RoleAdmin, false)

	// --- Password reset (shared flow, scoped by purpose) ---
	huma.Register(api, huma.Operation{
		OperationID: "forgot-password",
		Method:      http.MethodPost,
		Path:        "/users/password/forgot",
		Summary:     "Request a password reset code",
	}, h.ForgotPasswordHandler)

	huma.Register(api, huma.Operation{
		OperationID: "verify-reset-otp",
		Method:      http.MethodPost,
		Path:        "/users/password/verify-otp",
		Summary:     "Verify a password reset code",
	}, h.VerifyResetOTPHandler)

	huma.Register(api, huma.Operation{
		OperationID: "reset-password",
		Method:      http.MethodPost,
		Path:        "/users/password/reset",
		Summary:     "Set a new password with a reset token",
	}, h.ResetPasswordHandler)

	// --- OAuth ---
	huma.Register(api, huma.Operation{
		OperationID: "oauth-google-initiate",
		Method:      http.MethodGet,
		Path:        "/users/oauth/google",
		Summary:     "Initiate Google OAuth login",
	}, h.OAuthLoginHandler)

	huma.Register(api, huma.Operation{
		OperationID: "oauth-google-callback",
		Method:      http.MethodGet,
		Path:        "/users/oauth/google/callback",
		Summary:     "Handle Google OAuth callback",
	}, h.OAuthCallbackHandler)

	// --- Profile (any authenticated role) ---
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/users/profile",
		Summary:     "Get the current user's profile",
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: huma.Middlewares{h.auth},
	}, h.GetProfileHandler)

	huma.Register(api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPatch,
		Path:        "/users/profile",
		Summary:     "Update the current user's profile",
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: huma.Middlewares{h.auth},
	}, h.UpdateProfileHandler)
}

// registerAuthRoutes wires the auth surface for one portal prefix. The role
// is captured per prefix so /admin/login cannot be used with a student
// account. withRegistration omits the self-signup routes for the admin
// portal, whose accounts are created by migration.
func (h *Handler) registerAuthRoutes(api huma.API, prefix string, role Role, withRegistration bool) {
	op := func(name string) string { return fmt.Sprintf("%s-%s", string(role), name) }

	if withRegistration {
		huma.Register(api, huma.Operation{
			OperationID: op("register"),
			Method:      http.MethodPost,
			Path:        prefix + "/register",
			Summary:     "Request a registration code",
		}, h.RegisterHandler)

		huma.Register(api, huma.Operation{
			OperationID: op("verify-otp"),
			Method:      http.MethodPost,
			Path:        prefix + "/verify-otp",
			Summary:     "Finalize registration with a code",
		}, h.verifyRegistrationHandler(role))

		huma.Register(api, huma.Operation{
			OperationID: op("resend-otp"),
			Method:      http.MethodPost,
			Path:        prefix + "/resend-otp",
			Summary:     "Resend a one-time code",
		}, h.ResendOTPHandler)
	}

	huma.Register(api, huma.Operation{
		OperationID: op("login"),
		Method:      http.MethodPost,
		Path:        prefix + "/login",
		Summary:     "Log in",
	}, h.loginHandler(role))

	huma.Register(api, huma.Operation{
		OperationID: op("refresh"),
		Method:      http.MethodPost,
		Path:        prefix + "/refresh",
		Summary:     "Exchange a refresh token for a new access token",
	}, h.RefreshHandler)

	huma.Register(api, huma.Operation{
		OperationID: op("logout"),
		Method:      http.MethodPost,
		Path:        prefix + "/logout",
		Summary:     "Revoke a refresh token",
	}, h.LogoutHandler)
}
