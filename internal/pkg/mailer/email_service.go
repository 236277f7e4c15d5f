package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, fullName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName, clientURL string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

func (s *emailService) SendWelcome(toEmail, fullName string) error {
	m := s.buildWelcome(toEmail, fullName)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome email to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) buildWelcome(toEmail, fullName string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to "+s.senderName)
	m.SetBody("text/html", WelcomeBody(fullName, s.senderName, s.clientURL))
	return m
}

func WelcomeBody(fullName, product, clientURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to %s, %s!</h2>
			<p>Your account is ready. Ask your first question and get a step-by-step answer.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Start learning</a>
		</div>
	`, html.EscapeString(product), html.EscapeString(fullName), html.EscapeString(clientURL))
}

// NopEmailService is used when SMTP is not configured.
type NopEmailService struct{}

func (NopEmailService) SendWelcome(toEmail, fullName string) error {
	return nil
}
