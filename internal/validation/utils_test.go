package validation

import (
	"errors"
	"testing"

	"github.com/deppfellow/mealshare/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	Filename string `json:"filename" validate:"required"`
}

type submission struct {
	Title string  `json:"title" validate:"required"`
	Email string  `json:"creator_email" validate:"omitempty,email"`
	Image *upload `json:"image" validate:"required"`
}

func (s *submission) Validate() error {
	return Struct(s)
}

type customFailure struct{}

func (customFailure) Validate() error {
	return errs.NewValidationError("custom")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       Validatable
		wantMessage string
		wantFields  []string
	}{
		{
			name:        "valid",
			input:       &submission{Title: "Tacos", Image: &upload{Filename: "tacos.jpg"}},
			wantMessage: "",
		},
		{
			name:        "title checked first",
			input:       &submission{},
			wantMessage: "title required",
			wantFields:  []string{"title", "image"},
		},
		{
			name:        "missing image",
			input:       &submission{Title: "Tacos"},
			wantMessage: "image required",
			wantFields:  []string{"image"},
		},
		{
			name:        "image without filename",
			input:       &submission{Title: "Tacos", Image: &upload{}},
			wantMessage: "image required",
			wantFields:  []string{"image.filename"},
		},
		{
			name:        "custom app error passes through",
			input:       customFailure{},
			wantMessage: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantMessage == "" {
				assert.NoError(t, err)
				return
			}

			var appErr *errs.Error
			require.True(t, errors.As(err, &appErr))
			assert.True(t, errors.Is(err, errs.ErrValidation))
			assert.Equal(t, tt.wantMessage, appErr.Message)

			if tt.wantFields != nil {
				var fields []string
				for _, fe := range appErr.Errors {
					fields = append(fields, fe.Field)
				}
				assert.Equal(t, tt.wantFields, fields)
			}
		})
	}
}

func TestValidate_EmailMessage(t *testing.T) {
	err := Validate(&submission{Title: "Tacos", Email: "nope", Image: &upload{Filename: "a.png"}})

	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "creator_email", appErr.Errors[0].Field)
	assert.Equal(t, "must be a valid email address", appErr.Errors[0].Error)
	assert.Equal(t, "creator_email invalid", appErr.Message)
}
