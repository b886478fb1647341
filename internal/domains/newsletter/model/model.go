package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"freewriter/internal/shared/apperr"
)

// Subscription is unique per email; unsubscribing deactivates the row instead of deleting it.
type Subscription struct {
	ID           int64
	Email        string
	IsActive     bool
	SubscribedAt time.Time
	IPAddress    string
	UserAgent    string
}

// Outcome of an atomic subscribe.
type Outcome int

const (
	OutcomeAlreadyActive Outcome = iota
	OutcomeSubscribed
	OutcomeReactivated
)

type SubscribeRequest struct {
	Email string `json:"email" form:"email"`
}

// NormalizedEmail is trimmed and lower-cased.
func (r SubscribeRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

func (r SubscribeRequest) Validate() error {
	email := r.NormalizedEmail()
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.By(func(interface{}) error {
				return validation.Validate(email,
					validation.Required.Error("Email address is required"),
					is.EmailFormat.Error("Please enter a valid email address"),
					validation.Length(0, 254),
				)
			}),
		),
	)
}

type SubscribeResponse struct {
	Email       string `json:"email"`
	Reactivated bool   `json:"reactivated"`
}

// ============================================
// ERRORS
// ============================================

const (
	ErrCodeInvalidEmail      = "NEWS001"
	ErrCodeAlreadySubscribed = "NEWS002"
	ErrCodeNotSubscribed     = "NEWS003"
)

var ErrNotFound = errors.New("subscription not found")

func NewAlreadySubscribedError() *apperr.Error {
	return apperr.Validation(ErrCodeAlreadySubscribed, "This email is already subscribed to our newsletter.")
}

func NewNotSubscribedError(cause error) *apperr.Error {
	return apperr.NotFound(ErrCodeNotSubscribed, "This email is not subscribed to our newsletter.", cause)
}
