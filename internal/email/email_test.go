package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplates_Render(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render(TemplateTwoFactorCode, TemplateData{
		"Name":             "Dana",
		"Code":             "482913",
		"ExpiresInMinutes": 10,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "482913")
	assert.Contains(t, html, "10 minutes")

	html, err = tm.Render(TemplateTeamInvite, TemplateData{
		"InviterName": "<script>alert(1)</script>",
		"Role":        "EDITOR",
		"AcceptURL":   "https://app.example.com/team/accept?token=abc",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "token=abc")
}

func TestRender_UnknownTemplate(t *testing.T) {
	tm := NewTemplateManager()
	_, err := tm.Render("missing", nil)
	assert.ErrorContains(t, err, "template not found")
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockProvider{}, p)

	_, err = NewProvider(Config{Provider: "resend"})
	assert.Error(t, err)

	_, err = NewProvider(Config{Provider: "smtp"})
	assert.Error(t, err)

	_, err = NewProvider(Config{Provider: "pigeon"})
	assert.Error(t, err)
}

func TestMockProvider_SendTemplate(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)
	p := NewMockProvider(tm)

	err = p.SendTemplate([]string{"owner@example.com"}, "Refund processed", TemplateRefundNotice, TemplateData{
		"Name":     "Sam",
		"Amount":   "49.00",
		"Currency": "USD",
	})
	require.NoError(t, err)

	sent := p.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, sent[0].To)
	assert.Equal(t, "Refund processed", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, "49.00 USD")

	assert.Error(t, p.SendTemplate([]string{"x@example.com"}, "s", "nope", nil))
	assert.Len(t, p.Messages(), 1)
}
