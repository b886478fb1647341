package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"freewriter/internal/domains/newsletter/model"
	"freewriter/internal/domains/newsletter/repository"
	"freewriter/internal/infrastructure/queue"
	"freewriter/internal/shared"
	"freewriter/internal/shared/apperr"
)

type ServiceInterface interface {
	Subscribe(ctx context.Context, req model.SubscribeRequest, ipAddress, userAgent string) (*model.SubscribeResponse, error)
	Unsubscribe(ctx context.Context, req model.SubscribeRequest) error
}

type newsletterService struct {
	repo     repository.Repository
	enqueuer queue.Enqueuer
}

// NewService builds the service; enqueuer may be nil (no welcome mail).
func NewService(repo repository.Repository, enqueuer queue.Enqueuer) ServiceInterface {
	return &newsletterService{repo: repo, enqueuer: enqueuer}
}

func (s *newsletterService) Subscribe(
	ctx context.Context,
	req model.SubscribeRequest,
	ipAddress, userAgent string,
) (*model.SubscribeResponse, error) {
	// ========== STEP 1: Validate ==========
	if err := apperr.FromValidation(model.ErrCodeInvalidEmail, req.Validate()); err != nil {
		return nil, err
	}
	email := req.NormalizedEmail()

	// ========== STEP 2: Insert or reactivate ==========
	sub := &model.Subscription{Email: email, IPAddress: ipAddress, UserAgent: userAgent}
	outcome, err := s.repo.Subscribe(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	if outcome == model.OutcomeAlreadyActive {
		return nil, model.NewAlreadySubscribedError()
	}

	reactivated := outcome == model.OutcomeReactivated
	log.Info().
		Str("email", email).
		Bool("reactivated", reactivated).
		Msg("newsletter subscription")

	// ========== STEP 3: Welcome mail (best effort) ==========
	s.enqueueWelcome(ctx, email, reactivated)

	return &model.SubscribeResponse{Email: email, Reactivated: reactivated}, nil
}

func (s *newsletterService) Unsubscribe(ctx context.Context, req model.SubscribeRequest) error {
	if err := apperr.FromValidation(model.ErrCodeInvalidEmail, req.Validate()); err != nil {
		return err
	}
	email := req.NormalizedEmail()

	if err := s.repo.Unsubscribe(ctx, email); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewNotSubscribedError(err)
		}
		return fmt.Errorf("unsubscribe: %w", err)
	}

	log.Info().Str("email", email).Msg("newsletter unsubscribed")
	return nil
}

func (s *newsletterService) enqueueWelcome(ctx context.Context, email string, reactivated bool) {
	if s.enqueuer == nil {
		return
	}
	payload := shared.NewsletterWelcomePayload{Email: email, Reactivated: reactivated}
	if err := s.enqueuer.Enqueue(ctx, shared.TypeSendNewsletterWelcome, payload, queue.EmailOptions()...); err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to enqueue newsletter welcome email")
	}
}
