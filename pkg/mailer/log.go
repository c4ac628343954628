package mailer

import (
	"context"
	"strings"
)

type Logger interface {
	Info(msg string, args ...any)
}

// LogMailer records messages in the log instead of sending them. Used when
// no SMTP relay is configured.
type LogMailer struct {
	logger Logger
}

func NewLogMailer(logger Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	m.logger.Info("Email not sent: no SMTP relay configured",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
		"text_bytes", len(msg.Text),
		"html_bytes", len(msg.HTML),
	)
	return nil
}
