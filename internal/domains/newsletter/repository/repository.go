package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freewriter/internal/domains/newsletter/model"
)

type Repository interface {
	// Subscribe inserts or reactivates the email atomically.
	Subscribe(ctx context.Context, sub *model.Subscription) (model.Outcome, error)

	// Unsubscribe deactivates the email. model.ErrNotFound when it was never subscribed.
	Unsubscribe(ctx context.Context, email string) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Subscribe is a single statement against the unique email index. The DO UPDATE only fires
// for inactive rows, so an active email yields no row. xmax = 0 marks a freshly inserted row.
func (r *postgresRepository) Subscribe(ctx context.Context, sub *model.Subscription) (model.Outcome, error) {
	query := `
		INSERT INTO newsletter_subscriptions (email, ip_address, user_agent)
		VALUES ($1, NULLIF($2::text, '')::inet, $3)
		ON CONFLICT ON CONSTRAINT newsletter_subscriptions_email_key DO UPDATE
		SET is_active = TRUE,
		    subscribed_at = NOW(),
		    ip_address = EXCLUDED.ip_address,
		    user_agent = EXCLUDED.user_agent
		WHERE newsletter_subscriptions.is_active = FALSE
		RETURNING id, subscribed_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.pool.QueryRow(ctx, query, sub.Email, sub.IPAddress, sub.UserAgent).
		Scan(&sub.ID, &sub.SubscribedAt, &inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.OutcomeAlreadyActive, nil
	}
	if err != nil {
		return model.OutcomeAlreadyActive, fmt.Errorf("subscribe %s: %w", sub.Email, err)
	}

	sub.IsActive = true
	if inserted {
		return model.OutcomeSubscribed, nil
	}
	return model.OutcomeReactivated, nil
}

func (r *postgresRepository) Unsubscribe(ctx context.Context, email string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE newsletter_subscriptions SET is_active = FALSE WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("unsubscribe %s: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
