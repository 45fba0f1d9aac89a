package enrollment

import (
	"net/http"

	"github.com/anand-5154/edurise-server/internal/httpx"
)

// Pre-defined domain errors for the enrollment module.
var (
	ErrOrderNotFound = &httpx.DomainError{
		Code:       "ErrOrderNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "order not found",
		TypeURI:    "urn:problem:enrollment/err-order-not-found",
	}

	ErrNotEnrolled = &httpx.DomainError{
		Code:       "ErrNotEnrolled",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "you are not enrolled in this course",
		TypeURI:    "urn:problem:enrollment/err-not-enrolled",
	}

	ErrAlreadyEnrolled = &httpx.DomainError{
		Code:       "ErrAlreadyEnrolled",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "you are already enrolled in this course",
		TypeURI:    "urn:problem:enrollment/err-already-enrolled",
	}

	ErrCourseNotAvailable = &httpx.DomainError{
		Code:       "ErrCourseNotAvailable",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "course is not available for enrollment",
		TypeURI:    "urn:problem:enrollment/err-course-not-available",
	}

	ErrSignatureMismatch = &httpx.DomainError{
		Code:       "ErrSignatureMismatch",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "payment signature verification failed",
		TypeURI:    "urn:problem:enrollment/err-signature-mismatch",
	}

	ErrLectureLocked = &httpx.DomainError{
		Code:       "ErrLectureLocked",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "complete the previous module to unlock this lecture",
		TypeURI:    "urn:problem:enrollment/err-lecture-locked",
	}
)
