package middleware

import (
	"outbound_backend/internal/identity"
	"outbound_backend/pkg/apperrors"
	"outbound_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware resolves which account the caller operates on.
// It must run after AuthMiddleware and DBMiddleware.
func IdentityMiddleware(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := GetUserID(c)
		if callerID == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			return
		}

		who := resolver.Resolve(c.Request.Context(), GetDB(c), callerID)
		c.Set(string(contextkeys.IdentityContextKey), who)
		c.Next()
	}
}

// GetIdentity returns the identity stored by IdentityMiddleware.
func GetIdentity(c *gin.Context) (identity.Identity, bool) {
	val, ok := c.Get(string(contextkeys.IdentityContextKey))
	if !ok {
		return identity.Identity{}, false
	}
	who, ok := val.(identity.Identity)
	return who, ok
}
