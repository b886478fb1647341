package email

type WelcomeEmailData struct {
	Email    string
	Username string
}

type NewsletterWelcomeData struct {
	Email       string
	Reactivated bool
}

// Message is a rendered plain-text mail.
type Message struct {
	To      string
	Subject string
	Body    string
}
