// Package errs defines the error kinds the meal operations surface to callers.
//
// Callers only ever see one of a handful of coarse kinds (validation, fetch,
// save, conflict) with a generic message. The underlying driver or filesystem
// error is logged where it happens and never carried in the returned error.
//
// - Return consistent error shapes to callers (JSON friendly).
// - Support field-level validation errors for forms.
// - Play nicely with Go's standard errors package (errors.Is / errors.As).
package errs

import "strings"

// Kind classifies an Error.
type Kind string

const (
	KindValidation Kind = "validation"
	KindFetch      Kind = "fetch"
	KindSave       Kind = "save"
	KindConflict   Kind = "conflict"
)

// FieldError represents a field-level validation error.
//
//	{ "field": "title", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error is the error type returned by the service layer.
//
// Fields:
//   - Kind: coarse category, compared by errors.Is.
//   - Code: machine-friendly code (e.g. "MEAL_ALREADY_EXISTS").
//   - Message: human-friendly message, safe to show to end users.
//   - Status: HTTP status a web layer should answer with.
//   - Errors: per-field validation errors.
type Error struct {
	Kind    Kind         `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same Kind.
//
// This makes the package sentinels usable with errors.Is:
//
//	if errors.Is(err, errs.ErrConflict) { ... }
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithMessage returns a copy of this Error with Message replaced.
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Errors:  e.Errors,
	}
}

// Sentinels for errors.Is comparisons. Never return them directly.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrFetch      = &Error{Kind: KindFetch}
	ErrSave       = &Error{Kind: KindSave}
	ErrConflict   = &Error{Kind: KindConflict}
)

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
