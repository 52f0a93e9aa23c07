package notification

import (
	"context"
	"fmt"
	"net/mail"
)

const (
	SubjectSubmittedFormat = "New Leave Request from %s"
	SubjectApproved        = "Leave Request Approved"
	SubjectRejected        = "Leave Request Rejected"
	SubjectTest            = "Leave Management test email"

	NoReasonPlaceholder = "No reason provided"
)

// Message is a rendered notification ready for a transport.
type Message struct {
	To      string            `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (m Message) Validate() error {
	if m.To == "" {
		return fmt.Errorf("message has no recipient")
	}
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	if m.Subject == "" {
		return fmt.Errorf("message has no subject")
	}
	return nil
}

// Dispatcher delivers a message. Implementations report failures but callers
// on the leave workflow only ever log them.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
	// Transport names the delivery mechanism for health reporting.
	Transport() string
	// Configured is false when messages are only logged.
	Configured() bool
}
