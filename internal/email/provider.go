package email

import (
	"fmt"
)

// Provider sends email through a concrete transport.
type Provider interface {
	// Send delivers a prepared message
	Send(email *Email) error

	// SendTemplate renders templateName and delivers it to the recipients
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error
}

// Config selects and configures the provider.
type Config struct {
	Provider     string // resend, smtp, mock
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

func (c Config) from() string {
	if c.FromName == "" {
		return c.FromEmail
	}
	return fmt.Sprintf("%s <%s>", c.FromName, c.FromEmail)
}

// NewProvider builds the provider named in cfg with the built-in templates loaded.
func NewProvider(cfg Config) (Provider, error) {
	renderer, err := NewDefaultTemplateManager()
	if err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("resend api key is required")
		}
		return NewResendProvider(cfg, renderer), nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP host is required")
		}
		return NewSMTPProvider(cfg, renderer), nil
	case "mock", "":
		return NewMockProvider(renderer), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

func renderInto(renderer *TemplateManager, from string, to []string, subject, templateName string, data TemplateData) (*Email, error) {
	htmlBody, err := renderer.Render(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	return &Email{
		From:     from,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	}, nil
}
