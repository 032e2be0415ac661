package identity

import (
	"context"
	"errors"
	"testing"

	"outbound_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMembers struct {
	membership *models.TeamMember
	err        error
}

func (f *fakeMembers) FindAcceptedByMemberUserID(db *gorm.DB, memberUserID string) (*models.TeamMember, error) {
	return f.membership, f.err
}

func TestResolve_OwnAccount(t *testing.T) {
	r := NewResolver(&fakeMembers{})

	who := r.Resolve(context.Background(), nil, "caller-1")

	assert.Equal(t, "caller-1", who.CallerID)
	assert.Equal(t, "caller-1", who.EffectiveUserID)
	assert.Nil(t, who.TeamRole)
	assert.True(t, who.IsOwner())
}

func TestResolve_AcceptedMembership(t *testing.T) {
	r := NewResolver(&fakeMembers{membership: &models.TeamMember{
		UserID:       "owner-1",
		MemberUserID: strPtr("caller-1"),
		Role:         models.TeamRoleEditor,
		Status:       models.TeamMemberStatusAccepted,
	}})

	who := r.Resolve(context.Background(), nil, "caller-1")

	assert.Equal(t, "caller-1", who.CallerID)
	assert.Equal(t, "owner-1", who.EffectiveUserID)
	require.NotNil(t, who.TeamRole)
	assert.Equal(t, models.TeamRoleEditor, *who.TeamRole)
	assert.True(t, who.IsTeamMember())
}

func TestResolve_PendingMembershipIsIgnored(t *testing.T) {
	r := NewResolver(&fakeMembers{membership: &models.TeamMember{
		UserID: "owner-1",
		Role:   models.TeamRoleAdmin,
		Status: models.TeamMemberStatusPending,
	}})

	who := r.Resolve(context.Background(), nil, "caller-1")

	assert.Equal(t, "caller-1", who.EffectiveUserID)
	assert.Nil(t, who.TeamRole)
}

func TestResolve_LookupFailureFallsBackToCaller(t *testing.T) {
	r := NewResolver(&fakeMembers{err: errors.New("connection reset")})

	who := r.Resolve(context.Background(), nil, "caller-1")

	assert.Equal(t, "caller-1", who.EffectiveUserID)
	assert.True(t, who.IsOwner())
}

func strPtr(s string) *string { return &s }
