package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// TLSPolicy is "mandatory" (default), "opportunistic" or "none".
	TLSPolicy string
	Timeout   time.Duration
}

// SMTPMailer opens one SMTP session per message.
type SMTPMailer struct {
	from    string
	options []gomail.Option
	host    string
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("mailer: smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("mailer: from address is required")
	}

	policy, err := parseTLSPolicy(cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	options := []gomail.Option{gomail.WithTLSPolicy(policy)}
	if cfg.Port > 0 {
		options = append(options, gomail.WithPort(cfg.Port))
	}
	if cfg.Timeout > 0 {
		options = append(options, gomail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	// Fail on unusable option combinations at startup rather than on first send.
	if _, err := gomail.NewClient(cfg.Host, options...); err != nil {
		return nil, fmt.Errorf("mailer: smtp client: %w", err)
	}

	return &SMTPMailer{from: cfg.From, options: options, host: cfg.Host}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	out, err := m.build(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.host, m.options...)
	if err != nil {
		return fmt.Errorf("mailer: smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", strings.Join(msg.To, ","), err)
	}

	return nil
}

func (m *SMTPMailer) build(msg *Message) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(m.from); err != nil {
		return nil, fmt.Errorf("mailer: from %q: %w", m.from, err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("mailer: recipients: %w", err)
	}

	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	return out, nil
}

func parseTLSPolicy(raw string) (gomail.TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "mandatory":
		return gomail.TLSMandatory, nil
	case "opportunistic":
		return gomail.TLSOpportunistic, nil
	case "none", "off", "false":
		return gomail.NoTLS, nil
	default:
		return gomail.TLSMandatory, fmt.Errorf("mailer: unknown TLS policy %q", raw)
	}
}
