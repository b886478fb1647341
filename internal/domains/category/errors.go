package category

import (
	"errors"

	"freewriter/internal/shared/apperr"
)

const (
	ErrCodeCategoryNotFound = "CAT001"
	ErrCodeInvalidCategory  = "CAT002"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("category not found")

func NewNotFoundError(slug string, cause error) *apperr.Error {
	return apperr.NotFound(ErrCodeCategoryNotFound, "Category '"+slug+"' not found", cause)
}

func NewInvalidCategoryError(message string) *apperr.Error {
	return apperr.Validation(ErrCodeInvalidCategory, message)
}
