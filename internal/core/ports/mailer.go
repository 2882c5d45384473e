package ports

import "context"

// EmailMessage is a single outbound transactional email.
type EmailMessage struct {
	To       string
	Subject  string
	Body     string
	Template string // "welcome" or "cancelation"; used for metrics only
}

// Mailer delivers a single email synchronously.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// MailDispatcher accepts emails for asynchronous, fire-and-forget delivery.
// Enqueue never reports delivery errors back to the caller.
type MailDispatcher interface {
	Enqueue(msg EmailMessage)
}

// LoginLimiter throttles credential checks per email address.
type LoginLimiter interface {
	// Allow reports whether another attempt for this email may proceed.
	Allow(ctx context.Context, email string) (bool, error)
	// Reset clears the attempt counter after a successful login.
	Reset(ctx context.Context, email string) error
}
