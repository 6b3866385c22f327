package errs

import (
	"net/http"
)

// NewValidationError creates a validation error for insufficient caller input.
//
// fieldErrors is optional and lists the offending fields.
func NewValidationError(message string, fieldErrors ...FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "VALIDATION_FAILED",
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  fieldErrors,
	}
}

// NewFetchError creates an error for a failed read against the store.
//
// The message is generic on purpose; details belong in the logs.
func NewFetchError(message string) *Error {
	return &Error{
		Kind:    KindFetch,
		Code:    "FETCH_FAILED",
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// NewSaveError creates an error for a failed write path (sanitizing, file I/O or insert).
func NewSaveError(message string) *Error {
	return &Error{
		Kind:    KindSave,
		Code:    "SAVE_FAILED",
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// NewConflictError creates an error for a record that already exists.
//
// code is optional; it defaults to "CONFLICT".
func NewConflictError(message string, code *string) *Error {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusConflict))
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Kind:    KindConflict,
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusConflict,
	}
}
