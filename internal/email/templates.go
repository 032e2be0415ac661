package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateManager keeps parsed HTML email templates by name.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		templates: make(map[string]*template.Template),
	}
}

// NewDefaultTemplateManager returns a manager with every built-in template loaded.
func NewDefaultTemplateManager() (*TemplateManager, error) {
	tm := NewTemplateManager()
	for name, body := range defaultTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, fmt.Errorf("failed to add template %s: %w", name, err)
		}
	}
	return tm, nil
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

var defaultTemplates = map[string]string{
	TemplateTwoFactorCode: `<div style="font-family:sans-serif">
<h2>Your verification code</h2>
<p>Hi {{.Name}},</p>
<p>Use this code to finish signing in to Outbound Impact:</p>
<p style="font-size:28px;letter-spacing:6px"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.ExpiresInMinutes}} minutes. If you did not try to sign in, change your password.</p>
</div>`,

	TemplateTeamInvite: `<div style="font-family:sans-serif">
<h2>You have been invited</h2>
<p>{{.InviterName}} invited you to join their Outbound Impact workspace as {{.Role}}.</p>
<p><a href="{{.AcceptURL}}">Accept the invitation</a></p>
</div>`,

	TemplateRefundNotice: `<div style="font-family:sans-serif">
<h2>Your refund is on its way</h2>
<p>Hi {{.Name}},</p>
<p>We refunded {{.Amount}} {{.Currency}} to your original payment method. Your account and all of its content have been deleted.</p>
</div>`,
}
