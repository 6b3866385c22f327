package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"validation matches", NewValidationError("title required"), ErrValidation, true},
		{"fetch matches", NewFetchError("Failed to fetch meals."), ErrFetch, true},
		{"save matches", NewSaveError("Failed to save meal."), ErrSave, true},
		{"conflict matches", NewConflictError("exists", nil), ErrConflict, true},
		{"kinds differ", NewSaveError("Failed to save meal."), ErrFetch, false},
		{"wrapped error", fmt.Errorf("saving: %w", NewSaveError("x")), ErrSave, true},
		{"plain error", errors.New("boom"), ErrSave, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestConstructors(t *testing.T) {
	validation := NewValidationError("title required", FieldError{Field: "title", Error: "is required"})
	assert.Equal(t, http.StatusBadRequest, validation.Status)
	assert.Equal(t, "title required", validation.Error())
	assert.Len(t, validation.Errors, 1)

	conflict := NewConflictError("exists", nil)
	assert.Equal(t, "CONFLICT", conflict.Code)
	assert.Equal(t, http.StatusConflict, conflict.Status)

	code := "MEAL_ALREADY_EXISTS"
	assert.Equal(t, code, NewConflictError("exists", &code).Code)
}

func TestWithMessage(t *testing.T) {
	original := NewFetchError("Failed to fetch meals.")
	copied := original.WithMessage("Failed to fetch meal.")

	assert.Equal(t, "Failed to fetch meals.", original.Message)
	assert.Equal(t, "Failed to fetch meal.", copied.Message)
	assert.True(t, errors.Is(copied, ErrFetch))
}
