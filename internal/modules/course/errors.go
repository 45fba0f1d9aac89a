package course

import (
	"net/http"

	"github.com/anand-5154/edurise-server/internal/httpx"
)

// Pre-defined domain errors for the catalog module.
var (
	ErrCourseNotFound = &httpx.DomainError{
		Code:       "ErrCourseNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "course not found",
		TypeURI:    "urn:problem:course/err-course-not-found",
	}

	ErrCategoryNotFound = &httpx.DomainError{
		Code:       "ErrCategoryNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "category not found",
		TypeURI:    "urn:problem:course/err-category-not-found",
	}

	ErrModuleNotFound = &httpx.DomainError{
		Code:       "ErrModuleNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "module not found",
		TypeURI:    "urn:problem:course/err-module-not-found",
	}

	ErrLectureNotFound = &httpx.DomainError{
		Code:       "ErrLectureNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "lecture not found",
		TypeURI:    "urn:problem:course/err-lecture-not-found",
	}

	ErrNotOwner = &httpx.DomainError{
		Code:       "ErrNotOwner",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "you do not own this course",
		TypeURI:    "urn:problem:course/err-not-owner",
	}

	ErrInstructorNotActive = &httpx.DomainError{
		Code:       "ErrInstructorNotActive",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "instructor account is not verified",
		TypeURI:    "urn:problem:course/err-instructor-not-active",
	}

	ErrCourseHasEnrollments = &httpx.DomainError{
		Code:       "ErrCourseHasEnrollments",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "course cannot be deleted while learners are enrolled",
		TypeURI:    "urn:problem:course/err-course-has-enrollments",
	}

	ErrCategoryExists = &httpx.DomainError{
		Code:       "ErrCategoryExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "a category with this name already exists",
		TypeURI:    "urn:problem:course/err-category-exists",
	}

	ErrCategoryInUse = &httpx.DomainError{
		Code:       "ErrCategoryInUse",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "category is referenced by existing courses",
		TypeURI:    "urn:problem:course/err-category-in-use",
	}

	ErrReorderMismatch = &httpx.DomainError{
		Code:       "ErrReorderMismatch",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "the supplied order must contain every existing item exactly once",
		TypeURI:    "urn:problem:course/err-reorder-mismatch",
	}
)
