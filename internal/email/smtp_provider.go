package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider sends mail through an SMTP relay.
type SMTPProvider struct {
	config   Config
	renderer *TemplateManager
	dialer   *gomail.Dialer
}

func NewSMTPProvider(config Config, renderer *TemplateManager) *SMTPProvider {
	return &SMTPProvider{
		config:   config,
		renderer: renderer,
		dialer:   gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword),
	}
}

func (p *SMTPProvider) Send(email *Email) error {
	m := gomail.NewMessage()
	from := email.From
	if from == "" {
		from = p.config.from()
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

func (p *SMTPProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	email, err := renderInto(p.renderer, p.config.from(), to, subject, templateName, data)
	if err != nil {
		return err
	}
	return p.Send(email)
}
