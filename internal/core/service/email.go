package service

import (
	"fmt"

	"github.com/taskhive/task-manager-api/internal/core/ports"
)

// welcomeEmail is sent right after signup.
func welcomeEmail(email, name string) ports.EmailMessage {
	return ports.EmailMessage{
		To:       email,
		Subject:  "Thanks for joining in!",
		Body:     fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name),
		Template: "welcome",
	}
}

// cancelationEmail is sent when an account is deleted.
func cancelationEmail(email, name string) ports.EmailMessage {
	return ports.EmailMessage{
		To:       email,
		Subject:  "Account Cancelation",
		Body:     fmt.Sprintf("Goodbye %s. I hope to see you back sometime soon.\n", name),
		Template: "cancelation",
	}
}
