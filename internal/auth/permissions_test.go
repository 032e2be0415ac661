package auth

import (
	"testing"

	"outbound_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func role(r models.TeamRole) *models.TeamRole { return &r }

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		role     *models.TeamRole
		resource Resource
		action   Action
		want     bool
	}{
		{"owner may delete campaigns", nil, ResourceCampaign, ActionDelete, true},
		{"owner may request refunds", nil, ResourceRefund, ActionManage, true},
		{"viewer reads items", role(models.TeamRoleViewer), ResourceItem, ActionRead, true},
		{"viewer cannot create items", role(models.TeamRoleViewer), ResourceItem, ActionCreate, false},
		{"viewer cannot delete campaigns", role(models.TeamRoleViewer), ResourceCampaign, ActionDelete, false},
		{"editor updates campaigns", role(models.TeamRoleEditor), ResourceCampaign, ActionUpdate, true},
		{"editor uploads", role(models.TeamRoleEditor), ResourceUpload, ActionCreate, true},
		{"editor cannot delete items", role(models.TeamRoleEditor), ResourceItem, ActionDelete, false},
		{"editor cannot manage team", role(models.TeamRoleEditor), ResourceTeam, ActionManage, false},
		{"admin deletes items", role(models.TeamRoleAdmin), ResourceItem, ActionDelete, true},
		{"admin manages org members", role(models.TeamRoleAdmin), ResourceOrganizationMember, ActionManage, true},
		{"unknown action is denied", role(models.TeamRoleAdmin), ResourceAnalytics, ActionDelete, false},
		{"unknown resource is denied", role(models.TeamRoleAdmin), Resource("nope"), ActionRead, false},
		{"invalid role is denied", role(models.TeamRole("OWNER")), ResourceItem, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.role, tt.resource, tt.action))
		})
	}
}

func TestMinimumRole(t *testing.T) {
	r, ok := MinimumRole(ResourceCampaign, ActionDelete)
	assert.True(t, ok)
	assert.Equal(t, models.TeamRoleAdmin, r)

	_, ok = MinimumRole(ResourceUpload, ActionDelete)
	assert.False(t, ok)
}
