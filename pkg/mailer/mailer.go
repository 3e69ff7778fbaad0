// Package mailer is the outbound mail transport. Each Send builds a
// multipart/alternative message carrying both the plain and the HTML body.
package mailer

import (
	"gopkg.in/gomail.v2"
)

// Mailer is the contract the email worker calls, one recipient per call.
type Mailer interface {
	Send(recipient, subject, plainBody, htmlBody string) error
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer configures the dialer; the connection is made per send.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(recipient, subject, plainBody, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
