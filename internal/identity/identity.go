package identity

import (
	"context"

	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

// Identity is the result of resolving an authenticated caller.
type Identity struct {
	// CallerID is the authenticated account.
	CallerID string `json:"callerId"`
	// EffectiveUserID is the account whose data the request operates on.
	EffectiveUserID string `json:"effectiveUserId"`
	// TeamRole is nil when the caller acts on their own account.
	TeamRole *models.TeamRole `json:"teamRole"`
}

// IsTeamMember reports whether the caller is acting on someone else's account.
func (i Identity) IsTeamMember() bool {
	return i.TeamRole != nil
}

// IsOwner reports whether the caller is acting on their own account.
func (i Identity) IsOwner() bool {
	return i.TeamRole == nil
}

// MembershipFinder looks up the ACCEPTED team membership whose member is memberUserID.
// It returns nil, nil when there is none.
type MembershipFinder interface {
	FindAcceptedByMemberUserID(db *gorm.DB, memberUserID string) (*models.TeamMember, error)
}

// Resolver maps callers to the account they operate on.
type Resolver struct {
	members MembershipFinder
}

func NewResolver(members MembershipFinder) *Resolver {
	return &Resolver{members: members}
}

// Resolve never fails. A lookup error falls back to the caller's own account
// and is logged; the caller then only sees their own data.
func (r *Resolver) Resolve(ctx context.Context, db *gorm.DB, callerID string) Identity {
	self := Identity{CallerID: callerID, EffectiveUserID: callerID}

	membership, err := r.members.FindAcceptedByMemberUserID(db, callerID)
	if err != nil {
		logger.CtxWarn(ctx, "Team membership lookup failed, scoping request to caller", "caller_id", callerID, "error", err.Error())
		return self
	}
	if membership == nil || membership.Status != models.TeamMemberStatusAccepted || membership.UserID == "" {
		return self
	}

	role := membership.Role
	return Identity{
		CallerID:        callerID,
		EffectiveUserID: membership.UserID,
		TeamRole:        &role,
	}
}
