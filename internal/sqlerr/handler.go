package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/mealshare/internal/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// Both *sqlerr.Error and raw *pgconn.PgError values in the chain are recognised.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode creates the application error code for a unique violation.
//
//	meals => MEAL_ALREADY_EXISTS
func generateErrorCode(tableName string) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	return fmt.Sprintf("%s_ALREADY_EXISTS", domain)
}

// formatUserFriendlyMessage produces the end-user-facing message for a unique violation.
//
//	meals + meals_slug_key => "A meal with this slug already exists"
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := strings.ToLower(getEntityName(sqlErr.TableName, sqlErr.ColumnName))

	identifier := "identifier"
	if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
		identifier = strings.ToLower(humanizeText(columnName))
	}

	return fmt.Sprintf("A %s with this %s already exists", entityName, identifier)
}

// getEntityName infers an entity name from table/column data.
//
// Priority: "<name>_id" columns, then the singularized table name, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case.
//
//	"creator_email" -> "Creator Email"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column name from a unique constraint name.
//
// Supported conventions:
//
//  1. "unique_<table>_<column>"   e.g. unique_meals_slug -> "slug"
//  2. "<table>_<column>_(key|ukey)" e.g. meals_slug_key  -> "slug"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyPattern.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a failed write into an application-level error.
//
// Output:
//   - *errs.Error already in the chain: returned unchanged
//   - unique violation: errs.NewConflictError with a friendly message
//   - anything else: errs.NewSaveError(fallback)
//
// The caller is expected to log err before calling HandleError; the returned
// error never carries driver details.
func HandleError(err error, fallback string) error {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) {
		return errs.NewSaveError(fallback)
	}

	sqlErr := ConvertPgError(pgerr)
	if sqlErr.Code != UniqueViolation {
		return errs.NewSaveError(fallback)
	}

	errorCode := generateErrorCode(sqlErr.TableName)
	return errs.NewConflictError(formatUserFriendlyMessage(sqlErr), &errorCode)
}
