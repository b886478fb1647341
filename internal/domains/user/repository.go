package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract of the accounts domain.
type Repository interface {
	// ========================================
	// ACCOUNTS
	// ========================================

	// CreateWithProfile inserts the user and its profile in one transaction.
	// Returns ErrUsernameTaken / ErrEmailTaken on duplicates.
	CreateWithProfile(ctx context.Context, u *User, p *Profile) error

	// FindByID returns ErrUserNotFound when missing.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername is the login lookup. Returns ErrUserNotFound when missing.
	FindByUsername(ctx context.Context, username string) (*User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)

	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	// ========================================
	// PROFILE
	// ========================================

	// GetProfile returns ErrUserNotFound when the user has no profile row.
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)

	UpdateProfile(ctx context.Context, p *Profile) error

	// UpdateAvatar stores the new avatar key and returns the previous one ("" when none).
	UpdateAvatar(ctx context.Context, userID uuid.UUID, key string) (string, error)
}
