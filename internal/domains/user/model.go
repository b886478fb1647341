package user

import (
	"time"

	"github.com/google/uuid"
)

// User maps 1:1 to the users table.
type User struct {
	// Identity
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Email    string    `db:"email" json:"email"`

	// Authentication
	PasswordHash string `db:"password_hash" json:"-"` // never exposed

	// Authorization
	IsStaff  bool `db:"is_staff" json:"is_staff"`
	IsActive bool `db:"is_active" json:"is_active"`

	// Activity
	LastLoginAt *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserType is the profile kind picked by the member.
type UserType string

const (
	UserTypeReader UserType = "reader"
	UserTypeWriter UserType = "writer"
)

func (t UserType) IsValid() bool {
	switch t {
	case UserTypeReader, UserTypeWriter:
		return true
	}
	return false
}

func (t UserType) String() string {
	return string(t)
}

// Profile maps to user_profiles, one row per user created together with the user.
type Profile struct {
	UserID      uuid.UUID  `db:"user_id"`
	UserType    UserType   `db:"user_type"`
	Bio         string     `db:"bio"`
	Avatar      *string    `db:"avatar"` // blob key under avatars/
	DateOfBirth *time.Time `db:"date_of_birth"`
	Location    string     `db:"location"`
	Website     string     `db:"website"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// NewReaderProfile is the profile every registration starts with.
func NewReaderProfile(userID uuid.UUID) *Profile {
	return &Profile{UserID: userID, UserType: UserTypeReader}
}

// HasAvatar reports whether an avatar was uploaded.
func (p *Profile) HasAvatar() bool {
	return p.Avatar != nil && *p.Avatar != ""
}
