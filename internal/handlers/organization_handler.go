package handlers

import (
	"net/http"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	*BaseHandler
	orgService services.OrganizationService
}

func NewOrganizationHandler(base *BaseHandler, orgService services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		BaseHandler: base,
		orgService:  orgService,
	}
}

func (h *OrganizationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orgs := rg.Group("/organizations")
	{
		orgs.GET("", middleware.Authorize(auth.ResourceOrganization, auth.ActionRead), h.List)
		orgs.POST("", middleware.Authorize(auth.ResourceOrganization, auth.ActionCreate), h.Create)
		orgs.GET("/:id", middleware.Authorize(auth.ResourceOrganization, auth.ActionRead), h.Get)
		orgs.PUT("/:id", middleware.Authorize(auth.ResourceOrganization, auth.ActionUpdate), h.Update)
		orgs.DELETE("/:id", middleware.Authorize(auth.ResourceOrganization, auth.ActionDelete), h.Delete)
		orgs.POST("/:id/members", middleware.Authorize(auth.ResourceOrganizationMember, auth.ActionManage), h.AddMember)
		orgs.DELETE("/:id/members/:memberId", middleware.Authorize(auth.ResourceOrganizationMember, auth.ActionManage), h.RemoveMember)
	}
}

func (h *OrganizationHandler) List(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	orgs, err := h.orgService.List(h.GetDB(c), who.EffectiveUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": orgs})
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	org, err := h.orgService.Get(h.GetDB(c), who.EffectiveUserID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": org})
}

func (h *OrganizationHandler) Create(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.OrganizationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	org, err := h.orgService.Create(c.Request.Context(), h.GetDB(c), who, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "Organization created", "data": org})
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.OrganizationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), h.GetDB(c), who, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Organization updated", "data": org})
}

func (h *OrganizationHandler) Delete(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	if err := h.orgService.Delete(c.Request.Context(), h.GetDB(c), who, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Organization deleted")
}

func (h *OrganizationHandler) AddMember(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.AddOrganizationMemberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	org, err := h.orgService.AddMember(c.Request.Context(), h.GetDB(c), who, c.Param("id"), req.TeamMemberID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "Member added", "data": org})
}

func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	if err := h.orgService.RemoveMember(c.Request.Context(), h.GetDB(c), who, c.Param("id"), c.Param("memberId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Member removed")
}
