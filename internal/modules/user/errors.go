package user

import (
	"net/http"

	"github.com/anand-5154/edurise-server/internal/httpx"
)

// Pre-defined domain errors for the identity module.
var (
	ErrNotFound = &httpx.DomainError{
		Code:       "ErrNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "user not found",
		TypeURI:    "urn:problem:user/err-not-found",
	}

	ErrInvalidCredentials = &httpx.DomainError{
		Code:       "ErrInvalidCredentials",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "invalid email or password",
		TypeURI:    "urn:problem:user/err-invalid-credentials",
	}

	ErrAccountBlocked = &httpx.DomainError{
		Code:       "ErrAccountBlocked",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "this account has been blocked",
		TypeURI:    "urn:problem:user/err-account-blocked",
	}

	ErrInvalidOTP = &httpx.DomainError{
		Code:       "ErrInvalidOTP",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "invalid or expired one-time password",
		TypeURI:    "urn:problem:user/err-invalid-otp",
	}

	ErrResendTooSoon = &httpx.DomainError{
		Code:       "ErrResendTooSoon",
		HTTPStatus: http.StatusTooManyRequests,
		Title:      "Too Many Requests",
		Message:    "please wait before requesting another code",
		TypeURI:    "urn:problem:user/err-resend-too-soon",
	}

	ErrTooManyAttempts = &httpx.DomainError{
		Code:       "ErrTooManyAttempts",
		HTTPStatus: http.StatusTooManyRequests,
		Title:      "Too Many Requests",
		Message:    "too many invalid attempts",
		TypeURI:    "urn:problem:user/err-too-many-attempts",
	}

	ErrInvalidResetToken = &httpx.DomainError{
		Code:       "ErrInvalidResetToken",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "the provided token is invalid or has expired",
		TypeURI:    "urn:problem:user/err-invalid-reset-token",
	}

	ErrInvalidRefreshToken = &httpx.DomainError{
		Code:       "ErrInvalidRefreshToken",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "the refresh token is invalid or has expired",
		TypeURI:    "urn:problem:user/err-invalid-refresh-token",
	}

	ErrEmailExists = &httpx.DomainError{
		Code:       "ErrEmailExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "a user with this email already exists",
		TypeURI:    "urn:problem:user/err-email-exists",
	}

	ErrUsernameExists = &httpx.DomainError{
		Code:       "ErrUsernameExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "this username is already taken",
		TypeURI:    "urn:problem:user/err-username-exists",
	}

	ErrOAuthStateInvalid = &httpx.DomainError{
		Code:       "ErrOAuthStateInvalid",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "invalid oauth state",
		TypeURI:    "urn:problem:user/err-oauth-state-invalid",
	}

	ErrOAuthStateExpired = &httpx.DomainError{
		Code:       "ErrOAuthStateExpired",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "oauth state has expired",
		TypeURI:    "urn:problem:user/err-oauth-state-expired",
	}

	ErrOAuthExchangeFailed = &httpx.DomainError{
		Code:       "ErrOAuthExchangeFailed",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "oauth authentication failed",
		TypeURI:    "urn:problem:user/err-oauth-exchange-failed",
	}

	ErrOAuthEmailMissing = &httpx.DomainError{
		Code:       "ErrOAuthEmailMissing",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "email not provided by oauth provider",
		TypeURI:    "urn:problem:user/err-oauth-email-missing",
	}

	ErrInternal = &httpx.DomainError{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "internal server error",
		TypeURI:    "urn:problem:user/err-internal",
	}
)
