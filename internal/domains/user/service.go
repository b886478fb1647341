package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is the business contract of the accounts domain.
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// Logout revokes the token id until the token would have expired anyway.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error

	// User Profile
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*ProfileResponse, error)

	// Admin
	// CreateSuperuser is a no-op returning false when the username exists.
	CreateSuperuser(ctx context.Context, req SuperuserRequest) (bool, error)
}
