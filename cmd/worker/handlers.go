package main

import (
	"github.com/hibiken/asynq"

	matchingJob "freewriter/internal/domains/matching/job"
	"freewriter/internal/infrastructure/email"
	emailjob "freewriter/internal/infrastructure/email/job"
	"freewriter/internal/shared"
	"freewriter/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	welcomeEmail      *emailjob.WelcomeEmailHandler
	newsletterWelcome *emailjob.NewsletterWelcomeHandler

	// Maintenance handlers
	maintenance *matchingJob.MaintenanceHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(c.Config.SMTP)

	return &HandlerRegistry{
		welcomeEmail:      emailjob.NewWelcomeEmailHandler(emailSvc),
		newsletterWelcome: emailjob.NewNewsletterWelcomeHandler(emailSvc),
		maintenance:       matchingJob.NewMaintenanceHandler(c.MatchingService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeSendWelcomeEmail, h.welcomeEmail.ProcessTask)
	mux.HandleFunc(shared.TypeSendNewsletterWelcome, h.newsletterWelcome.ProcessTask)

	// Maintenance tasks
	for _, taskType := range h.maintenance.TaskTypes() {
		mux.HandleFunc(taskType, h.maintenance.ProcessTask)
	}
}
