package models

type UserRole string
type Plan string
type SubscriptionStatus string
type TeamRole string
type TeamMemberStatus string
type ItemType string
type ViewSource string
type ConversationStatus string
type SenderType string
type RefundStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	PlanFree           Plan = "FREE"
	PlanIndividual     Plan = "INDIVIDUAL"
	PlanSmallBusiness  Plan = "SMALL_BUSINESS"
	PlanMediumBusiness Plan = "MEDIUM_BUSINESS"
	PlanEnterprise     Plan = "ENTERPRISE"

	SubscriptionStatusNone     SubscriptionStatus = "none"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"

	TeamRoleViewer TeamRole = "VIEWER"
	TeamRoleEditor TeamRole = "EDITOR"
	TeamRoleAdmin  TeamRole = "ADMIN"

	TeamMemberStatusPending  TeamMemberStatus = "PENDING"
	TeamMemberStatusAccepted TeamMemberStatus = "ACCEPTED"

	ItemTypeImage ItemType = "IMAGE"
	ItemTypeVideo ItemType = "VIDEO"
	ItemTypeAudio ItemType = "AUDIO"
	ItemTypeText  ItemType = "TEXT"
	ItemTypeEmbed ItemType = "EMBED"

	ViewSourceDirect ViewSource = "DIRECT"
	ViewSourceQR     ViewSource = "QR"
	ViewSourceNFC    ViewSource = "NFC"

	ConversationStatusActive ConversationStatus = "ACTIVE"
	ConversationStatusClosed ConversationStatus = "CLOSED"

	SenderTypeUser    SenderType = "USER"
	SenderTypeSupport SenderType = "SUPPORT"
	SenderTypeSystem  SenderType = "SYSTEM"

	RefundStatusPending   RefundStatus = "PENDING"
	RefundStatusSucceeded RefundStatus = "SUCCEEDED"
	RefundStatusFailed    RefundStatus = "FAILED"
)

const gb = int64(1024 * 1024 * 1024)

// planStorageLimits maps each plan to its storage quota in bytes.
var planStorageLimits = map[Plan]int64{
	PlanFree:           2 * gb,
	PlanIndividual:     100 * gb,
	PlanSmallBusiness:  500 * gb,
	PlanMediumBusiness: 1024 * gb,
	PlanEnterprise:     5 * 1024 * gb,
}

// StorageLimit returns the quota for p, falling back to the free tier.
func (p Plan) StorageLimit() int64 {
	if limit, ok := planStorageLimits[p]; ok {
		return limit
	}
	return planStorageLimits[PlanFree]
}

func (p Plan) IsValid() bool {
	_, ok := planStorageLimits[p]
	return ok
}

// Rank orders team roles; higher ranks include everything lower ones may do.
func (r TeamRole) Rank() int {
	switch r {
	case TeamRoleViewer:
		return 1
	case TeamRoleEditor:
		return 2
	case TeamRoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r TeamRole) IsValid() bool {
	return r.Rank() > 0
}

func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeImage, ItemTypeVideo, ItemTypeAudio, ItemTypeText, ItemTypeEmbed:
		return true
	}
	return false
}

// ParseViewSource maps the ?src= query value of a public link.
func ParseViewSource(src string) ViewSource {
	switch src {
	case "qr", "QR":
		return ViewSourceQR
	case "nfc", "NFC":
		return ViewSourceNFC
	default:
		return ViewSourceDirect
	}
}
