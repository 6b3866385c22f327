package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/deppfellow/mealshare/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a struct with validator tags (`validate:"required"`)
// - Implement Validate() error that runs validation.Struct(v)
type Validatable interface {
	Validate() error
}

var (
	once     sync.Once
	validate *validator.Validate
)

// instance returns the shared validator. Field names are taken from json tags
// so errors speak the same language as the forms ("creator_email").
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
	})
	return validate
}

// Struct runs tag based validation on s.
func Struct(s any) error {
	return instance().Struct(s)
}

// Validate runs v.Validate and converts a failure into *errs.Error.
//
// Validation is fail-fast: the message names the first failing top-level
// field ("title required", "creator_email invalid"), the field errors list
// every failure.
func Validate(v Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errs.NewValidationError("Validation failed")
	}

	first := validationErrors[0]
	message := topLevelField(first) + " required"
	if first.Tag() != "required" {
		message = topLevelField(first) + " invalid"
	}

	return errs.NewValidationError(message, extractFieldErrors(validationErrors)...)
}

// topLevelField returns the first field below the root struct:
// "MealSubmission.image.filename" -> "image".
func topLevelField(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		return parts[1]
	}
	return fe.Field()
}

// fieldPath strips the root struct name from the namespace:
// "MealSubmission.image.filename" -> "image.filename".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func extractFieldErrors(validationErrors validator.ValidationErrors) []errs.FieldError {
	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "email":
			msg = "must be a valid email address"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fieldPath(err),
			Error: msg,
		})
	}

	return fieldErrors
}
