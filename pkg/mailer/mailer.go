// Package mailer sends the contact-intake notification mail to the firm
// inbox. It is configured for Mailtrap (smtp.mailtrap.io), which is useful
// for development and testing environments; production deployments swap the
// credentials for a real SMTP relay.
package mailer

import (
	"fmt"
	"net/smtp"

	"taxportal-backend/internal/models"
)

// Mailer delivers contact notifications over SMTP.
type Mailer struct {
	smtpUser  string
	smtpPass  string
	from      string
	recipient string
}

// NewMailer creates a Mailer. All fields are required; callers with no SMTP
// configuration should not construct one.
func NewMailer(smtpUser, smtpPass, from, recipient string) (*Mailer, error) {
	if smtpUser == "" || smtpPass == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if from == "" || recipient == "" {
		return nil, fmt.Errorf("sender and recipient addresses must be provided")
	}
	return &Mailer{smtpUser: smtpUser, smtpPass: smtpPass, from: from, recipient: recipient}, nil
}

// NotifyContact mails one new contact submission to the firm inbox.
func (m *Mailer) NotifyContact(msg *models.ContactMessage) error {
	subject := fmt.Sprintf("New contact submission from %s", msg.Name)
	body := fmt.Sprintf(
		"Name: %s\r\nEmail: %s\r\nPhone: %s\r\nService: %s\r\n\r\n%s\r\n",
		msg.Name, msg.Email, msg.Phone, msg.Service, msg.Message,
	)
	return m.send(subject, body)
}

func (m *Mailer) send(subject, body string) error {
	smtpHost := "smtp.mailtrap.io"
	smtpAddr := smtpHost + ":2525"

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", m.recipient, m.from, subject, body))

	auth := smtp.PlainAuth("", m.smtpUser, m.smtpPass, smtpHost)

	if err := smtp.SendMail(smtpAddr, auth, m.from, []string{m.recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
