package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"outbound_backend/internal/email"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type TeamService interface {
	List(db *gorm.DB, ownerID string) ([]models.TeamMember, error)
	Invite(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.InviteTeamMemberRequest) (*models.TeamMember, error)
	Accept(ctx context.Context, db *gorm.DB, callerID, token string) (*models.TeamMember, error)
	UpdateRole(ctx context.Context, db *gorm.DB, who identity.Identity, memberID string, role models.TeamRole) (*models.TeamMember, error)
	Remove(ctx context.Context, db *gorm.DB, who identity.Identity, memberID string) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	audit    AuditService
	mailer   email.Provider
	settings Settings
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	audit AuditService,
	mailer email.Provider,
	settings Settings,
) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		audit:    audit,
		mailer:   mailer,
		settings: settings,
	}
}

func (s *teamService) List(db *gorm.DB, ownerID string) ([]models.TeamMember, error) {
	members, err := s.teamRepo.ListByOwner(db, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return members, nil
}

func (s *teamService) Invite(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.InviteTeamMemberRequest) (*models.TeamMember, error) {
	owner, err := s.userRepo.FindByID(db, who.EffectiveUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	inviteEmail := strings.ToLower(strings.TrimSpace(req.Email))
	if inviteEmail == strings.ToLower(owner.Email) {
		return nil, apperrors.ErrCannotInviteSelf
	}

	existing, err := s.teamRepo.FindByOwnerAndEmail(db, owner.ID, inviteEmail)
	if err != nil && !errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadyInvited
	}

	member := &models.TeamMember{
		UserID:      owner.ID,
		Email:       inviteEmail,
		Role:        req.Role,
		Status:      models.TeamMemberStatusPending,
		InviteToken: generateRandomToken(),
	}
	if err := s.teamRepo.Create(db, member); err != nil {
		return nil, apperrors.InternalError(err)
	}

	inviterName := owner.Name
	if inviterName == "" {
		inviterName = owner.Email
	}
	acceptURL := fmt.Sprintf("%s/team/accept?token=%s", strings.TrimRight(s.settings.FrontendURL, "/"), member.InviteToken)

	err = s.mailer.SendTemplate([]string{inviteEmail}, "You're invited to Outbound Impact", email.TemplateTeamInvite, email.TemplateData{
		"InviterName": inviterName,
		"Role":        string(req.Role),
		"AcceptURL":   acceptURL,
	})
	if err != nil {
		if delErr := s.teamRepo.Delete(db, owner.ID, member.ID); delErr != nil {
			logger.CtxWithError(ctx, "Failed to roll back invitation", delErr, "member_id", member.ID)
		}
		return nil, apperrors.ExternalServiceError(err, "email", "Failed to send invitation email")
	}

	s.audit.Record(ctx, db, who, AuditTeamInvited, "team_member", member.ID, map[string]interface{}{
		"email": inviteEmail,
		"role":  req.Role,
	})
	return member, nil
}

func (s *teamService) Accept(ctx context.Context, db *gorm.DB, callerID, token string) (*models.TeamMember, error) {
	member, err := s.teamRepo.FindByInviteToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, apperrors.NewNotFoundError("team", "Invitation not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if member.Status != models.TeamMemberStatusPending {
		return nil, apperrors.ErrInvalidOperation("team", "This invitation has already been accepted")
	}

	caller, err := s.userRepo.FindByID(db, callerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !strings.EqualFold(caller.Email, member.Email) {
		return nil, apperrors.NewForbiddenError("This invitation was sent to a different email address")
	}
	if caller.ID == member.UserID {
		return nil, apperrors.ErrCannotInviteSelf
	}

	current, err := s.teamRepo.FindAcceptedByMemberUserID(db, callerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if current != nil {
		return nil, apperrors.ErrConflict(nil, "team", "You already belong to a team")
	}

	now := time.Now()
	member.MemberUserID = &caller.ID
	member.Status = models.TeamMemberStatusAccepted
	member.AcceptedAt = &now
	if err := s.teamRepo.Update(db, member); err != nil {
		return nil, apperrors.InternalError(err)
	}

	role := member.Role
	s.audit.Record(ctx, db, identity.Identity{CallerID: callerID, EffectiveUserID: member.UserID, TeamRole: &role},
		AuditTeamAccepted, "team_member", member.ID, nil)
	return member, nil
}

func (s *teamService) UpdateRole(ctx context.Context, db *gorm.DB, who identity.Identity, memberID string, role models.TeamRole) (*models.TeamMember, error) {
	member, err := s.find(db, who.EffectiveUserID, memberID)
	if err != nil {
		return nil, err
	}
	if member.MemberUserID != nil && *member.MemberUserID == who.CallerID {
		return nil, apperrors.ErrInvalidOperation("team", "You cannot change your own role")
	}

	previous := member.Role
	member.Role = role
	if err := s.teamRepo.Update(db, member); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditTeamRoleChanged, "team_member", member.ID, map[string]interface{}{
		"from": previous,
		"to":   role,
	})
	return member, nil
}

func (s *teamService) Remove(ctx context.Context, db *gorm.DB, who identity.Identity, memberID string) error {
	member, err := s.find(db, who.EffectiveUserID, memberID)
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(db, who.EffectiveUserID, member.ID); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return apperrors.ErrTeamMemberNotFound
		}
		return apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditTeamRemoved, "team_member", member.ID, map[string]interface{}{
		"email": member.Email,
	})
	return nil
}

func (s *teamService) find(db *gorm.DB, ownerID, memberID string) (*models.TeamMember, error) {
	member, err := s.teamRepo.FindByID(db, ownerID, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, apperrors.ErrTeamMemberNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return member, nil
}
