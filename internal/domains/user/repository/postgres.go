package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freewriter/internal/domains/user"
	infradb "freewriter/internal/infrastructure/database"
	"freewriter/pkg/database"
)

const (
	constraintUsername = "users_username_key"
	constraintEmail    = "users_email_key"
)

// postgresRepository implements user.Repository on pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, is_staff, is_active, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsStaff, &u.IsActive, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ========================================
// ACCOUNTS
// ========================================

func (r *postgresRepository) CreateWithProfile(ctx context.Context, u *user.User, p *user.Profile) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (id, username, email, password_hash, is_staff, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at, updated_at`,
			u.ID, u.Username, u.Email, u.PasswordHash, u.IsStaff, u.IsActive,
		).Scan(&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_profiles (user_id, user_type, bio, location, website)
			VALUES ($1, $2, $3, $4, $5)`,
			u.ID, p.UserType, p.Bio, p.Location, p.Website,
		)
		return err
	})

	switch {
	case err == nil:
		return nil
	case infradb.IsUniqueViolation(err, constraintUsername):
		return user.ErrUsernameTaken
	case infradb.IsUniqueViolation(err, constraintEmail):
		return user.ErrEmailTaken
	default:
		return fmt.Errorf("create user %s: %w", u.Username, err)
	}
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *postgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ========================================
// PROFILE
// ========================================

func (r *postgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*user.Profile, error) {
	var p user.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, user_type, bio, avatar, date_of_birth, location, website, updated_at
		FROM user_profiles
		WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.UserType, &p.Bio, &p.Avatar, &p.DateOfBirth, &p.Location, &p.Website, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, p *user.Profile) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE user_profiles
		SET user_type = $2, bio = $3, date_of_birth = $4, location = $5, website = $6, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`,
		p.UserID, p.UserType, p.Bio, p.DateOfBirth, p.Location, p.Website,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	// The subquery reads the row as it was before this statement.
	var previous *string
	err := r.pool.QueryRow(ctx, `
		UPDATE user_profiles p
		SET avatar = $2, updated_at = NOW()
		FROM (SELECT avatar FROM user_profiles WHERE user_id = $1) AS old
		WHERE p.user_id = $1
		RETURNING old.avatar`,
		userID, key,
	).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", user.ErrUserNotFound
		}
		return "", fmt.Errorf("update avatar: %w", err)
	}
	if previous == nil {
		return "", nil
	}
	return *previous, nil
}
