package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendUrgencyAlert(toEmail, workspaceName, message string, matchedRules []string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendUrgencyAlert(toEmail, workspaceName, message string, matchedRules []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("[URGENT] Message flagged in %s", workspaceName))

	rules := "<li>" + strings.Join(matchedRules, "</li><li>") + "</li>"
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>An incoming message was flagged as urgent</h2>
			<blockquote style="border-left: 4px solid #E53935; padding-left: 12px;">%s</blockquote>
			<p>Matched rules:</p>
			<ul>%s</ul>
			<p>Please follow up with the user as soon as possible.</p>
		</div>
	`, message, rules)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send urgency alert: %w", err)
	}
	return nil
}
