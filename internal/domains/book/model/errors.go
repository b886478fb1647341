package model

import (
	"errors"

	"freewriter/internal/shared/apperr"
)

const (
	ErrCodeBookNotFound     = "BOOK001"
	ErrCodeDuplicateSlug    = "BOOK002"
	ErrCodeValidation       = "BOOK003"
	ErrCodeInvalidCategory  = "BOOK004"
	ErrCodeInvalidFile      = "BOOK005"
	ErrCodeInvalidFlag      = "BOOK006"
	ErrCodeInvalidSlugTitle = "BOOK007"
)

var (
	// ErrNotFound is returned by the repository when no book matches.
	ErrNotFound = errors.New("book not found")
	// ErrSlugTaken is returned by the repository when the slug already exists.
	ErrSlugTaken = errors.New("book slug already exists")
)

func NewBookNotFoundError(slug string, cause error) *apperr.Error {
	return apperr.NotFound(ErrCodeBookNotFound, "Book '"+slug+"' not found", cause)
}

func NewDuplicateSlugError(slug string) *apperr.Error {
	return apperr.Conflict(ErrCodeDuplicateSlug,
		"A book with slug '"+slug+"' already exists; choose a different title", ErrSlugTaken)
}

func NewInvalidFileError(field, message string) *apperr.Error {
	return apperr.Validation(ErrCodeInvalidFile, "invalid "+field).
		WithDetails(map[string]string{field: message})
}

func NewInvalidFlagError(flag string) *apperr.Error {
	return apperr.Validation(ErrCodeInvalidFlag, "unknown flag '"+flag+"' (expected recommended, fiction or business)")
}
