package model

import "freewriter/internal/shared/apperr"

const (
	ErrCodeValidation   = "REV001"
	ErrCodeUnauthorized = "REV002"
)

func NewUnauthorizedError() *apperr.Error {
	return apperr.Unauthenticated(ErrCodeUnauthorized, "Log in to review books")
}
