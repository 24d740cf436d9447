package notify

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/config"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/monitoring"
)

// SMTPMailer delivers transactional email over SMTP
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewSMTPMailer creates a new SMTP mailer from configuration
func NewSMTPMailer(cfg *config.SMTPConfig, log *logger.Logger, metrics *monitoring.MetricsCollector) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		logger:  log,
		metrics: metrics,
	}
}

// Send delivers a message synchronously. Callers decide whether to await
// delivery or dispatch in the background. Every attempt is counted under the
// message subject, which is a small fixed set of template titles.
func (m *SMTPMailer) Send(to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.metrics.RecordEmailSent(subject, false)
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	m.metrics.RecordEmailSent(subject, true)
	m.logger.Info("Email sent", "to", to, "subject", subject)
	return nil
}
