package email

import (
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendProvider sends mail through the Resend API.
type ResendProvider struct {
	config   Config
	renderer *TemplateManager
	client   *resend.Client
}

func NewResendProvider(config Config, renderer *TemplateManager) *ResendProvider {
	return &ResendProvider{
		config:   config,
		renderer: renderer,
		client:   resend.NewClient(config.ResendAPIKey),
	}
}

func (p *ResendProvider) Send(email *Email) error {
	from := email.From
	if from == "" {
		from = p.config.from()
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.Body,
	}

	if _, err := p.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	return nil
}

func (p *ResendProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	email, err := renderInto(p.renderer, p.config.from(), to, subject, templateName, data)
	if err != nil {
		return err
	}
	return p.Send(email)
}
