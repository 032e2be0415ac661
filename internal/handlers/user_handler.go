package handlers

import (
	"net/http"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	{
		user.GET("/me", h.GetMe)
		user.PUT("/me", h.UpdateMe)
		user.DELETE("/account", h.DeleteAccount)
		user.GET("/storage", middleware.Authorize(auth.ResourceItem, auth.ActionRead), h.GetStorage)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	me, err := h.userService.GetMe(h.GetDB(c), who)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": me})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Profile updated", "data": user})
}

// DeleteAccount closes the caller's own account. Team members acting on
// someone else's account cannot close it.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	if who.IsTeamMember() {
		apperrors.HandleError(c, apperrors.ErrRolePermission)
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), h.GetDB(c), who.CallerID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Account deleted")
}

func (h *UserHandler) GetStorage(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	usage, err := h.userService.GetStorageUsage(h.GetDB(c), who.EffectiveUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": usage})
}
