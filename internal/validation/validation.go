// Package validation contains the logic for validating
// submitted data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags and converts
// validation failures into errs.Error values the caller
// can understand.
package validation
