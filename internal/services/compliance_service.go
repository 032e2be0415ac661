package services

import (
	"errors"
	"strings"
	"time"

	"outbound_backend/internal/compliance"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ComplianceService interface {
	Overview(db *gorm.DB, ownerID string) (*dto.ComplianceOverview, error)
	CampaignReport(db *gorm.DB, ownerID, campaignID string) (*compliance.Report, error)
}

type complianceService struct {
	campaignRepo repositories.CampaignRepository
	now          func() time.Time
}

func NewComplianceService(campaignRepo repositories.CampaignRepository) ComplianceService {
	return &complianceService{
		campaignRepo: campaignRepo,
		now:          time.Now,
	}
}

func (s *complianceService) Overview(db *gorm.DB, ownerID string) (*dto.ComplianceOverview, error) {
	campaigns, err := s.campaignRepo.ListWithItems(db, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	reports := make([]compliance.Report, 0, len(campaigns))
	for i := range campaigns {
		reports = append(reports, compliance.Score(snapshotOf(&campaigns[i]), now))
	}

	return &dto.ComplianceOverview{
		AverageScore: compliance.Average(reports),
		Campaigns:    reports,
	}, nil
}

func (s *complianceService) CampaignReport(db *gorm.DB, ownerID, campaignID string) (*compliance.Report, error) {
	campaign, err := s.campaignRepo.FindByID(db, ownerID, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	report := compliance.Score(snapshotOf(campaign), s.now())
	return &report, nil
}

func snapshotOf(campaign *models.Campaign) compliance.Snapshot {
	items := make([]compliance.ItemSnapshot, 0, len(campaign.Items))
	for i := range campaign.Items {
		item := &campaign.Items[i]
		items = append(items, compliance.ItemSnapshot{
			ID:             item.ID,
			HasMedia:       item.HasMedia(),
			HasDescription: strings.TrimSpace(item.Description) != "",
			UpdatedAt:      item.UpdatedAt,
		})
	}
	return compliance.Snapshot{
		CampaignID:        campaign.ID,
		Name:              campaign.Name,
		HasQRCode:         campaign.QRCode != "",
		PasswordProtected: campaign.IsPasswordProtected(),
		Views:             campaign.Views,
		Items:             items,
	}
}
