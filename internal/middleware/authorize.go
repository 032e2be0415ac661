package middleware

import (
	"outbound_backend/internal/auth"
	"outbound_backend/internal/logger"
	"outbound_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Authorize rejects team members whose role is below the policy minimum for
// (resource, action). Owners always pass. The handler never runs on rejection.
func Authorize(resource auth.Resource, action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, ok := GetIdentity(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			return
		}

		if !auth.Allows(who.TeamRole, resource, action) {
			logger.CtxWarn(c.Request.Context(), "Team role denied",
				"resource", string(resource),
				"action", string(action),
				"role", string(*who.TeamRole),
				"effective_user_id", who.EffectiveUserID,
			)
			apperrors.HandleError(c, apperrors.ErrRolePermission)
			return
		}

		c.Next()
	}
}
