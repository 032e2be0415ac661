package email

import (
	"sync"

	"outbound_backend/internal/logger"
)

// MockProvider records messages instead of sending them. Used in development and tests.
type MockProvider struct {
	renderer *TemplateManager

	mu   sync.Mutex
	Sent []Email
}

func NewMockProvider(renderer *TemplateManager) *MockProvider {
	return &MockProvider{renderer: renderer}
}

func (p *MockProvider) Send(email *Email) error {
	p.mu.Lock()
	p.Sent = append(p.Sent, *email)
	p.mu.Unlock()

	logger.Info("mock email sent", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *MockProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	email, err := renderInto(p.renderer, "", to, subject, templateName, data)
	if err != nil {
		return err
	}
	return p.Send(email)
}

// Messages returns a copy of everything sent so far.
func (p *MockProvider) Messages() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Email, len(p.Sent))
	copy(out, p.Sent)
	return out
}
