package services

import (
	"outbound_backend/internal/email"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	TeamService         TeamService
	ItemService         ItemService
	UploadService       UploadService
	CampaignService     CampaignService
	OrganizationService OrganizationService
	AnalyticsService    AnalyticsService
	AuditService        AuditService
	ComplianceService   ComplianceService
	ChatService         ChatService
	BillingService      BillingService
	RefundService       RefundService
	SecurityService     SecurityService
	WhiteLabelService   WhiteLabelService
	PublicService       PublicService
	EmailService        email.Provider
}
