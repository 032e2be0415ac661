package handlers

import (
	"net/http"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	*BaseHandler
	teamService services.TeamService
}

func NewTeamHandler(base *BaseHandler, teamService services.TeamService) *TeamHandler {
	return &TeamHandler{
		BaseHandler: base,
		teamService: teamService,
	}
}

func (h *TeamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	team := rg.Group("/team")
	{
		team.GET("", middleware.Authorize(auth.ResourceTeam, auth.ActionRead), h.List)
		team.POST("/invite", middleware.Authorize(auth.ResourceTeam, auth.ActionManage), h.Invite)
		team.PUT("/:id/role", middleware.Authorize(auth.ResourceTeam, auth.ActionManage), h.UpdateRole)
		team.DELETE("/:id", middleware.Authorize(auth.ResourceTeam, auth.ActionDelete), h.Remove)
		team.POST("/accept", h.Accept)
	}
}

func (h *TeamHandler) List(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	members, err := h.teamService.List(h.GetDB(c), who.EffectiveUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": members})
}

func (h *TeamHandler) Invite(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.InviteTeamMemberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	member, err := h.teamService.Invite(c.Request.Context(), h.GetDB(c), who, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "Invitation sent", "data": member})
}

func (h *TeamHandler) UpdateRole(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	member, err := h.teamService.UpdateRole(c.Request.Context(), h.GetDB(c), who, c.Param("id"), req.Role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Role updated", "data": member})
}

func (h *TeamHandler) Remove(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	if err := h.teamService.Remove(c.Request.Context(), h.GetDB(c), who, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Team member removed")
}

// Accept is called by the invitee with the token from their invitation email.
func (h *TeamHandler) Accept(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AcceptInviteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	member, err := h.teamService.Accept(c.Request.Context(), h.GetDB(c), userID, req.Token)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Invitation accepted", "data": member})
}
