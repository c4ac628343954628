// Package mailer delivers transactional email. Implementations are safe for
// concurrent use.
package mailer

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

var ErrInvalidMessage = errors.New("mailer: invalid message")

// Message is a single multipart/alternative email. Text is required; HTML is optional.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// Validate checks the fields every transport needs.
func (m *Message) Validate() error {
	if m == nil {
		return ErrInvalidMessage
	}
	if len(m.To) == 0 {
		return errors.Join(ErrInvalidMessage, errors.New("no recipients"))
	}
	for _, to := range m.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return errors.Join(ErrInvalidMessage, err)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.Join(ErrInvalidMessage, errors.New("empty subject"))
	}
	if strings.TrimSpace(m.Text) == "" {
		return errors.Join(ErrInvalidMessage, errors.New("empty text body"))
	}
	return nil
}
