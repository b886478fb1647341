package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"freewriter/internal/infrastructure/email"
	"freewriter/internal/shared"
)

// ============================================
// Welcome Email Handler
// ============================================

type WelcomeEmailHandler struct {
	emailService email.EmailService
}

func NewWelcomeEmailHandler(emailService email.EmailService) *WelcomeEmailHandler {
	return &WelcomeEmailHandler{emailService: emailService}
}

func (h *WelcomeEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal WelcomeEmail payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("email", payload.Email).
		Str("user_id", payload.UserID).
		Msg("Processing welcome email")

	if err := h.emailService.SendWelcomeEmail(ctx, email.WelcomeEmailData{
		Email:    payload.Email,
		Username: payload.Username,
	}); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	return nil
}

// ============================================
// Newsletter Welcome Handler
// ============================================

type NewsletterWelcomeHandler struct {
	emailService email.EmailService
}

func NewNewsletterWelcomeHandler(emailService email.EmailService) *NewsletterWelcomeHandler {
	return &NewsletterWelcomeHandler{emailService: emailService}
}

func (h *NewsletterWelcomeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.NewsletterWelcomePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal NewsletterWelcome payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("email", payload.Email).
		Bool("reactivated", payload.Reactivated).
		Msg("Processing newsletter welcome email")

	if err := h.emailService.SendNewsletterWelcome(ctx, email.NewsletterWelcomeData{
		Email:       payload.Email,
		Reactivated: payload.Reactivated,
	}); err != nil {
		return fmt.Errorf("send newsletter welcome: %w", err)
	}

	return nil
}
