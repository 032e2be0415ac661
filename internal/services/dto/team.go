package dto

import "outbound_backend/internal/models"

type InviteTeamMemberRequest struct {
	Email string          `json:"email" validate:"required,email"`
	Role  models.TeamRole `json:"role" validate:"required,is-team-role"`
}

type UpdateTeamRoleRequest struct {
	Role models.TeamRole `json:"role" validate:"required,is-team-role"`
}

type AcceptInviteRequest struct {
	Token string `json:"token" validate:"required"`
}
