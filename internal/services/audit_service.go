package services

import (
	"context"
	"encoding/json"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"
	"outbound_backend/pkg/contextkeys"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit actions
const (
	AuditItemCreated         = "item.created"
	AuditItemUpdated         = "item.updated"
	AuditItemDeleted         = "item.deleted"
	AuditItemUploaded        = "item.uploaded"
	AuditCampaignCreated     = "campaign.created"
	AuditCampaignUpdated     = "campaign.updated"
	AuditCampaignDeleted     = "campaign.deleted"
	AuditCampaignItemAdded   = "campaign.item_added"
	AuditCampaignItemRemoved = "campaign.item_removed"
	AuditOrgCreated          = "organization.created"
	AuditOrgUpdated          = "organization.updated"
	AuditOrgDeleted          = "organization.deleted"
	AuditOrgMemberAdded      = "organization.member_added"
	AuditOrgMemberRemoved    = "organization.member_removed"
	AuditTeamInvited         = "team.invited"
	AuditTeamRoleChanged     = "team.role_changed"
	AuditTeamRemoved         = "team.removed"
	AuditTeamAccepted        = "team.accepted"
	AuditWhiteLabelUpdated   = "white_label.updated"
	AuditPasswordChanged     = "security.password_changed"
	AuditTwoFactorEnabled    = "security.2fa_enabled"
	AuditTwoFactorDisabled   = "security.2fa_disabled"
	AuditLogin               = "auth.login"
)

type AuditService interface {
	// Record appends an entry. Failures are logged and never fail the caller.
	Record(ctx context.Context, db *gorm.DB, who identity.Identity, action, entityType, entityID string, details map[string]interface{})
	List(db *gorm.DB, ownerID string, query *dto.AuditQuery) (*dto.AuditListResponse, error)
}

type auditService struct {
	auditRepo repositories.AuditRepository
}

func NewAuditService(auditRepo repositories.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, db *gorm.DB, who identity.Identity, action, entityType, entityID string, details map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:     who.EffectiveUserID,
		ActorID:    who.CallerID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  contextkeys.ClientIP(ctx),
	}

	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err == nil {
			entry.Details = datatypes.JSON(raw)
		}
	}

	if err := s.auditRepo.Create(db, entry); err != nil {
		logger.CtxWithError(ctx, "Failed to write audit log", err, "action", action, "entity_id", entityID)
	}
}

func (s *auditService) List(db *gorm.DB, ownerID string, query *dto.AuditQuery) (*dto.AuditListResponse, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	logs, total, err := s.auditRepo.List(db, ownerID, repositories.AuditFilter{
		Action:     query.Action,
		EntityType: query.EntityType,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuditListResponse{
		Logs:     logs,
		ListMeta: dto.NewListMeta(total, page, pageSize),
	}, nil
}
