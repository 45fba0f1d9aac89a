package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// FieldErrors maps JSON field names to a list of validation error messages.
type FieldErrors map[string][]string

// ValidationError satisfies httpx.DomainProblem structurally (without
// importing it) so httpx.ToProblem can format it; this avoids import cycles.
type ValidationError struct {
	summary string
	fields  FieldErrors
}

func (e *ValidationError) Error() string { return e.summary }

func (e *ValidationError) ProblemCode() string    { return "ErrValidation" }
func (e *ValidationError) ProblemStatus() int     { return 400 }
func (e *ValidationError) ProblemTitle() string   { return "Validation error" }
func (e *ValidationError) ProblemDetail() string  { return e.summary }
func (e *ValidationError) ProblemTypeURI() string { return "urn:problem:validation-error" }
func (e *ValidationError) ProblemContext() any    { return map[string]any{"fields": e.fields} }

// Fields exposes the per-field messages, mainly for tests.
func (e *ValidationError) Fields() FieldErrors { return e.fields }

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON tag names instead of struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			return lowerFirst(fld.Name)
		}
		return name
	})
	return v
}

// ValidateStruct validates a struct according to its `validate` tags and
// returns a *ValidationError describing every failing field, or nil.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{summary: "validation failed", fields: FieldErrors{}}
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], messageForTag(fe))
	}

	summary := fmt.Sprintf("%s %s", verrs[0].Field(), messageForTag(verrs[0]))
	if others := len(verrs) - 1; others > 0 {
		summary = fmt.Sprintf("%s, and %d other error%s", summary, others, plural(others))
	}
	return &ValidationError{summary: summary, fields: fields}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", lowerFirst(fe.Param()))
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
