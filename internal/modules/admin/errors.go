package admin

import (
	"net/http"

	"github.com/anand-5154/edurise-server/internal/httpx"
)

// Pre-defined domain errors for the moderation module.
var (
	ErrInvalidTransition = &httpx.DomainError{
		Code:       "ErrInvalidTransition",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "the account is not in a state that allows this action",
		TypeURI:    "urn:problem:admin/err-invalid-transition",
	}

	ErrNotInstructor = &httpx.DomainError{
		Code:       "ErrNotInstructor",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "the account is not an instructor",
		TypeURI:    "urn:problem:admin/err-not-instructor",
	}

	ErrNotStudent = &httpx.DomainError{
		Code:       "ErrNotStudent",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "the account is not a student",
		TypeURI:    "urn:problem:admin/err-not-student",
	}
)
