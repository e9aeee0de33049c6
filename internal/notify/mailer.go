// Package notify turns created orders into customer and admin messages.
// Delivery is best effort: a failed notification is logged and swallowed,
// it never fails or rolls back the order it belongs to.
package notify

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Mailer sends one HTML message to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay with STARTTLS.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	fromName string
}

func NewSMTPMailer(host string, port int, user, password, from, fromName string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", m.fromName), m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
