package config

import (
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/constants"
	"github.com/akeren/waitlist-api/pkg/mailer"
	"github.com/akeren/waitlist-api/pkg/utils"
)

type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	TLSPolicy string
}

func NewMailConfig() *MailConfig {
	return &MailConfig{
		Host:      utils.GetEnvTrimmed("SMTP_HOST"),
		Port:      utils.GetEnvPositiveInt("SMTP_PORT", constants.DefaultSMTPPort),
		Username:  utils.GetEnvTrimmed("SMTP_USERNAME"),
		Password:  utils.GetEnvOrDefault("SMTP_PASSWORD", ""),
		From:      utils.GetEnvTrimmedOrDefault("MAIL_FROM", constants.DefaultMailFrom),
		TLSPolicy: utils.GetEnvTrimmedOrDefault("SMTP_TLS_POLICY", "mandatory"),
	}
}

func (mc *MailConfig) IsConfigured() bool {
	return mc.Host != ""
}

// NewMailer returns an SMTP mailer, or a logging mailer when SMTP is not
// configured. A broken SMTP configuration is an error rather than a silent
// fallback.
func (mc *MailConfig) NewMailer(logger *log.Logger) (mailer.Mailer, error) {
	if !mc.IsConfigured() {
		logger.Warn("SMTP_HOST not set; confirmation emails will be logged, not sent")
		return mailer.NewLogMailer(logger), nil
	}

	m, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:      mc.Host,
		Port:      mc.Port,
		Username:  mc.Username,
		Password:  mc.Password,
		From:      mc.From,
		TLSPolicy: mc.TLSPolicy,
		Timeout:   constants.DefaultNotifierSendTimeout,
	})
	if err != nil {
		logger.Error("Invalid SMTP configuration", "error", err)
		return nil, err
	}

	logger.Info("SMTP mailer configured", "host", mc.Host, "port", mc.Port, "tls_policy", mc.TLSPolicy)
	return m, nil
}
