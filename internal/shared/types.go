package shared

// Task types handled by cmd/worker.
const (
	TypeSendWelcomeEmail      = "email:welcome"
	TypeSendNewsletterWelcome = "email:newsletter_welcome"

	TypeFixImages   = "maintenance:fix_images"
	TypeFixPDFs     = "maintenance:fix_pdfs"
	TypeCreateBooks = "maintenance:create_books"
)

// Queues
const (
	QueueDefault     = "default"
	QueueEmail       = "email"
	QueueMaintenance = "maintenance"
)

// WelcomeEmailPayload is sent after registration.
type WelcomeEmailPayload struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// NewsletterWelcomePayload is sent after a newsletter subscribe or reactivation.
type NewsletterWelcomePayload struct {
	Email       string `json:"email"`
	Reactivated bool   `json:"reactivated"`
}

// MaintenancePayload must stay identical for every enqueue of a task type:
// asynq.Unique derives its lock from the type and the payload bytes.
type MaintenancePayload struct {
	Task string `json:"task"`
}
