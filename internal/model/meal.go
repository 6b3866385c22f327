// Package model holds the meal types shared by the repository and service layers.
package model

import (
	"io"

	"github.com/deppfellow/mealshare/internal/validation"
)

// Meal is a stored meal record.
//
// Image is the public path of the stored image (e.g. "/images/spicy-bean-tacos.jpg"),
// never the uploaded bytes.
type Meal struct {
	ID           int64  `json:"id" db:"id"`
	Title        string `json:"title" db:"title"`
	Summary      string `json:"summary" db:"summary"`
	Instructions string `json:"instructions" db:"instructions"`
	Creator      string `json:"creator" db:"creator"`
	CreatorEmail string `json:"creator_email" db:"creator_email"`
	Image        string `json:"image" db:"image"`
	Slug         string `json:"slug" db:"slug"`
}

// ImageUpload is an uploaded image before it is written to disk.
type ImageUpload struct {
	// Filename is the original client side filename; only its extension is kept.
	Filename string    `json:"filename" validate:"required"`
	Content  io.Reader `json:"-" validate:"required"`
}

// MealSubmission is a new meal as submitted by the web layer.
type MealSubmission struct {
	Title        string       `json:"title" validate:"required"`
	Summary      string       `json:"summary"`
	Instructions string       `json:"instructions"`
	Creator      string       `json:"creator"`
	CreatorEmail string       `json:"creator_email"`
	Image        *ImageUpload `json:"image" validate:"required"`
}

// Validate checks that the title and the image are present, in that order.
func (s *MealSubmission) Validate() error {
	return validation.Struct(s)
}
