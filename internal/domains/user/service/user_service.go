package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"freewriter/internal/domains/user"
	"freewriter/internal/infrastructure/queue"
	"freewriter/internal/infrastructure/storage"
	"freewriter/internal/shared"
	"freewriter/internal/shared/apperr"
	"freewriter/pkg/cache"
	"freewriter/pkg/jwt"
)

const tokenTypeBearer = "Bearer"

// userService implements user.Service
type userService struct {
	repo     user.Repository
	jwt      *jwt.Manager
	revoked  cache.Cache    // logout blacklist, may be nil
	enqueuer queue.Enqueuer // welcome mails, may be nil
	images   *storage.ImageProcessor
	blobs    storage.BlobStore

	hashCost int
}

func NewUserService(
	repo user.Repository,
	jwtManager *jwt.Manager,
	revoked cache.Cache,
	enqueuer queue.Enqueuer,
	images *storage.ImageProcessor,
	blobs storage.BlobStore,
) user.Service {
	return &userService{
		repo:     repo,
		jwt:      jwtManager,
		revoked:  revoked,
		enqueuer: enqueuer,
		images:   images,
		blobs:    blobs,
		hashCost: bcrypt.DefaultCost,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	// 1. VALIDATE INPUT
	req.Normalize()
	if err := apperr.FromValidation(user.ErrCodeValidation, req.Validate()); err != nil {
		return nil, err
	}

	// 2. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. PERSIST user + reader profile
	newUser := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		IsActive:     true,
	}
	if err := s.repo.CreateWithProfile(ctx, newUser, user.NewReaderProfile(newUser.ID)); err != nil {
		return nil, mapCreateError(err)
	}

	log.Info().
		Str("user_id", newUser.ID.String()).
		Str("username", newUser.Username).
		Msg("user registered")

	// 4. WELCOME EMAIL (async, best effort)
	s.enqueueWelcome(ctx, newUser)

	dto := newUser.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, user.NewInvalidCredentialsError()
	}

	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// Inactive accounts fail exactly like a wrong password.
	if !u.IsActive {
		return nil, user.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.NewInvalidCredentialsError()
	}

	token, claims, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Username, u.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("failed to update last login")
	} else {
		now := time.Now()
		u.LastLoginAt = &now
	}

	return &user.LoginResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        u.ToDTO(),
	}, nil
}

func (s *userService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	if s.revoked == nil {
		log.Warn().Str("token_id", tokenID).Msg("logout without revocation store, token stays valid until expiry")
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Set(ctx, cache.KeyRevokedPrefix+tokenID, true, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// ========================================
// USER PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.ProfileResponse, error) {
	u, p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(u, p), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.ProfileResponse, error) {
	if err := apperr.FromValidation(user.ErrCodeValidation, req.Validate()); err != nil {
		return nil, err
	}

	u, p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.NewUserNotFoundError(err)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.toResponse(u, p), nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*user.ProfileResponse, error) {
	// 1. Validate + square crop
	if err := s.images.ValidateImage(data); err != nil {
		return nil, user.NewInvalidAvatarError(err)
	}
	avatar, err := s.images.Avatar(data)
	if err != nil {
		return nil, user.NewInvalidAvatarError(err)
	}

	u, p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 2. Upload, then swap the key; the new blob is removed if the swap fails
	key := storage.ObjectKey(storage.PrefixAvatars, avatarFilename(filename))
	if _, err := s.blobs.Upload(ctx, key, avatar, storage.ContentTypeJPEG); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	previous, err := s.repo.UpdateAvatar(ctx, userID, key)
	if err != nil {
		s.removeBlob(ctx, key)
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.NewUserNotFoundError(err)
		}
		return nil, fmt.Errorf("save avatar: %w", err)
	}
	if previous != "" && previous != key {
		s.removeBlob(ctx, previous)
	}

	p.Avatar = &key
	log.Info().Str("user_id", userID.String()).Str("key", key).Msg("avatar updated")
	return s.toResponse(u, p), nil
}

// ========================================
// ADMIN
// ========================================

func (s *userService) CreateSuperuser(ctx context.Context, req user.SuperuserRequest) (bool, error) {
	req.SetDefaults()

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return false, err
	}
	if exists {
		log.Info().Str("username", req.Username).Msg("superuser already exists")
		return false, nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	admin := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(passwordHash),
		IsStaff:      true,
		IsActive:     true,
	}
	if err := s.repo.CreateWithProfile(ctx, admin, user.NewReaderProfile(admin.ID)); err != nil {
		// Lost a race with a concurrent run: still a no-op.
		if errors.Is(err, user.ErrUsernameTaken) {
			return false, nil
		}
		return false, mapCreateError(err)
	}

	log.Info().Str("username", admin.Username).Msg("superuser created")
	return true, nil
}

// ========================================
// HELPERS
// ========================================

func (s *userService) load(ctx context.Context, userID uuid.UUID) (*user.User, *user.Profile, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, user.NewUserNotFoundError(err)
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("get profile: %w", err)
		}
		// Accounts created outside registration may lack a profile row.
		p = user.NewReaderProfile(userID)
	}
	return u, p, nil
}

func (s *userService) toResponse(u *user.User, p *user.Profile) *user.ProfileResponse {
	var resolve func(string) string
	if s.blobs != nil {
		resolve = s.blobs.PublicURL
	}
	resp := user.ToProfileResponse(u, p, resolve)
	return &resp
}

func (s *userService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete avatar blob")
	}
}

func (s *userService) enqueueWelcome(ctx context.Context, u *user.User) {
	if s.enqueuer == nil {
		return
	}
	payload := shared.WelcomeEmailPayload{
		UserID:   u.ID.String(),
		Email:    u.Email,
		Username: u.Username,
	}
	if err := s.enqueuer.Enqueue(ctx, shared.TypeSendWelcomeEmail, payload, queue.EmailOptions()...); err != nil {
		log.Error().Err(err).Str("user_id", u.ID.String()).Msg("failed to enqueue welcome email")
	}
}

func mapCreateError(err error) error {
	switch {
	case errors.Is(err, user.ErrUsernameTaken):
		return user.NewDuplicateUsernameError(err)
	case errors.Is(err, user.ErrEmailTaken):
		return user.NewDuplicateEmailError(err)
	default:
		return fmt.Errorf("create user: %w", err)
	}
}

// avatarFilename keeps the upload's base name with the .jpg extension avatars are stored as.
func avatarFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." || base == "/" {
		base = "avatar"
	}
	return base + ".jpg"
}
