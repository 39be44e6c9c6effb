// Package mail renders and delivers outgoing email. Delivery is asynchronous:
// callers hand messages to a Dispatcher, whose workers pass them to a Sender.
package mail

import "context"

// Message is a templated email. Template names a file pair under templates/
// (<name>.html and <name>.txt); Data is the template context.
type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const TemplateEmailConfirm = "email_confirm"

// ConfirmationMessage builds the email-confirmation mail for a new or
// unconfirmed account.
func ConfirmationMessage(to, username, link string) Message {
	return Message{
		To:       to,
		Subject:  "Confirm your email",
		Template: TemplateEmailConfirm,
		Data: map[string]any{
			"username": username,
			"link":     link,
		},
	}
}
