package notifications

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/you/credsvc/domain"
)

// SMTPServiceImpl implements domain.EmailSender over an SMTP relay using
// STARTTLS with PLAIN authentication. One attempt per call, no retries.
type SMTPServiceImpl struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTPService creates a new SMTP email sender
func NewSMTPService(host string, port int, username, password string) domain.EmailSender {
	return &SMTPServiceImpl{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

// Send implements domain.EmailSender
func (s *SMTPServiceImpl) Send(to, from, subject, body string) error {
	// If the relay is not configured, log instead of sending
	if s.host == "" {
		log.Printf("[MOCK EMAIL] To: %s, Subject: %s, Body: %s", to, subject, body)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from, to, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	// smtp.SendMail negotiates STARTTLS when the server offers it
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}

	return nil
}
