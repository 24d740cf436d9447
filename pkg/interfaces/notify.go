package interfaces

// Mailer defines outbound email delivery
type Mailer interface {
	Send(to, subject, textBody, htmlBody string) error
}
