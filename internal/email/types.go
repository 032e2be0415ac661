package email

// Email is a single outgoing message.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is passed to the HTML templates.
type TemplateData map[string]interface{}

// Template names
const (
	TemplateTwoFactorCode = "two_factor_code"
	TemplateTeamInvite    = "team_invite"
	TemplateRefundNotice  = "refund_notice"
)
