package auth

import "outbound_backend/internal/models"

type Resource string
type Action string

const (
	ResourceItem               Resource = "item"
	ResourceCampaign           Resource = "campaign"
	ResourceOrganization       Resource = "organization"
	ResourceOrganizationMember Resource = "organization_member"
	ResourceUpload             Resource = "upload"
	ResourceAnalytics          Resource = "analytics"
	ResourceAudit              Resource = "audit"
	ResourceCompliance         Resource = "compliance"
	ResourceTeam               Resource = "team"
	ResourceBilling            Resource = "billing"
	ResourceRefund             Resource = "refund"
	ResourceWhiteLabel         Resource = "white_label"
	ResourceChat               Resource = "chat"

	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// policy maps (resource, action) to the minimum team role allowed to perform it.
// Owners (no team role) may do everything. Pairs missing here are denied to team members.
var policy = map[Resource]map[Action]models.TeamRole{
	ResourceItem: {
		ActionRead:   models.TeamRoleViewer,
		ActionCreate: models.TeamRoleEditor,
		ActionUpdate: models.TeamRoleEditor,
		ActionDelete: models.TeamRoleAdmin,
	},
	ResourceCampaign: {
		ActionRead:   models.TeamRoleViewer,
		ActionCreate: models.TeamRoleEditor,
		ActionUpdate: models.TeamRoleEditor,
		ActionDelete: models.TeamRoleAdmin,
	},
	ResourceOrganization: {
		ActionRead:   models.TeamRoleViewer,
		ActionCreate: models.TeamRoleEditor,
		ActionUpdate: models.TeamRoleEditor,
		ActionDelete: models.TeamRoleAdmin,
	},
	ResourceOrganizationMember: {
		ActionRead:   models.TeamRoleViewer,
		ActionManage: models.TeamRoleAdmin,
	},
	ResourceUpload: {
		ActionCreate: models.TeamRoleEditor,
	},
	ResourceAnalytics: {
		ActionRead: models.TeamRoleViewer,
	},
	ResourceAudit: {
		ActionRead: models.TeamRoleViewer,
	},
	ResourceCompliance: {
		ActionRead: models.TeamRoleViewer,
	},
	ResourceTeam: {
		ActionRead:   models.TeamRoleViewer,
		ActionManage: models.TeamRoleAdmin,
		ActionDelete: models.TeamRoleAdmin,
	},
	ResourceBilling: {
		ActionRead:   models.TeamRoleViewer,
		ActionManage: models.TeamRoleAdmin,
	},
	ResourceRefund: {
		ActionManage: models.TeamRoleAdmin,
	},
	ResourceWhiteLabel: {
		ActionRead:   models.TeamRoleViewer,
		ActionUpdate: models.TeamRoleEditor,
	},
	ResourceChat: {
		ActionRead:   models.TeamRoleViewer,
		ActionCreate: models.TeamRoleEditor,
	},
}

// MinimumRole returns the lowest team role allowed to perform action on resource.
func MinimumRole(resource Resource, action Action) (models.TeamRole, bool) {
	actions, ok := policy[resource]
	if !ok {
		return "", false
	}
	role, ok := actions[action]
	return role, ok
}

// Allows reports whether a caller with the given team role may perform action on resource.
// A nil role means the caller is acting on their own account.
func Allows(role *models.TeamRole, resource Resource, action Action) bool {
	if role == nil {
		return true
	}
	required, ok := MinimumRole(resource, action)
	if !ok {
		return false
	}
	return role.Rank() >= required.Rank()
}
