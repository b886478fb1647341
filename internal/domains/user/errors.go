package user

import (
	"errors"

	"freewriter/internal/shared/apperr"
)

// Repository-level errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrEmailTaken       = errors.New("email already exists")
	ErrPasswordMismatch = errors.New("the two password fields didn't match")
)

// Error codes
const (
	ErrCodeValidation         = "USER001"
	ErrCodeDuplicateUsername  = "USER002"
	ErrCodeDuplicateEmail     = "USER003"
	ErrCodeInvalidCredentials = "USER004"
	ErrCodeUserNotFound       = "USER005"
	ErrCodeInvalidAvatar      = "USER006"
)

func NewDuplicateUsernameError(cause error) error {
	return apperr.Conflict(ErrCodeDuplicateUsername, "A user with that username already exists.", cause).
		WithDetails(map[string]string{"username": "A user with that username already exists."})
}

func NewDuplicateEmailError(cause error) error {
	return apperr.Conflict(ErrCodeDuplicateEmail, "A user with that email already exists.", cause).
		WithDetails(map[string]string{"email": "A user with that email already exists."})
}

// NewInvalidCredentialsError does not tell unknown usernames from wrong passwords.
func NewInvalidCredentialsError() error {
	return apperr.Unauthenticated(ErrCodeInvalidCredentials, "Invalid Credentials")
}

func NewUserNotFoundError(cause error) error {
	return apperr.NotFound(ErrCodeUserNotFound, "User not found", cause)
}

func NewInvalidAvatarError(cause error) error {
	return &apperr.Error{
		Kind:    apperr.KindValidation,
		Code:    ErrCodeInvalidAvatar,
		Message: "invalid avatar image",
		Details: map[string]string{"avatar": cause.Error()},
		Err:     cause,
	}
}
