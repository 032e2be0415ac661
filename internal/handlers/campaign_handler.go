package handlers

import (
	"net/http"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	*BaseHandler
	campaignService services.CampaignService
}

func NewCampaignHandler(base *BaseHandler, campaignService services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		BaseHandler:     base,
		campaignService: campaignService,
	}
}

func (h *CampaignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	campaigns := rg.Group("/campaigns")
	{
		campaigns.GET("", middleware.Authorize(auth.ResourceCampaign, auth.ActionRead), h.List)
		campaigns.POST("", middleware.Authorize(auth.ResourceCampaign, auth.ActionCreate), h.Create)
		campaigns.GET("/:id", middleware.Authorize(auth.ResourceCampaign, auth.ActionRead), h.Get)
		campaigns.PUT("/:id", middleware.Authorize(auth.ResourceCampaign, auth.ActionUpdate), h.Update)
		campaigns.DELETE("/:id", middleware.Authorize(auth.ResourceCampaign, auth.ActionDelete), h.Delete)
		campaigns.POST("/:id/items/:itemId", middleware.Authorize(auth.ResourceCampaign, auth.ActionUpdate), h.AddItem)
		campaigns.DELETE("/:id/items/:itemId", middleware.Authorize(auth.ResourceCampaign, auth.ActionUpdate), h.RemoveItem)
	}
}

func (h *CampaignHandler) List(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	result, err := h.campaignService.List(h.GetDB(c), who.EffectiveUserID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": result})
}

func (h *CampaignHandler) Get(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	campaign, err := h.campaignService.Get(h.GetDB(c), who.EffectiveUserID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": campaign})
}

func (h *CampaignHandler) Create(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateCampaignRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), h.GetDB(c), who, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "Campaign created", "data": campaign})
}

func (h *CampaignHandler) Update(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateCampaignRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), h.GetDB(c), who, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Campaign updated", "data": campaign})
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), h.GetDB(c), who, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Campaign deleted")
}

func (h *CampaignHandler) AddItem(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	campaign, err := h.campaignService.AddItem(c.Request.Context(), h.GetDB(c), who, c.Param("id"), c.Param("itemId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Item added to campaign", "data": campaign})
}

func (h *CampaignHandler) RemoveItem(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	campaign, err := h.campaignService.RemoveItem(c.Request.Context(), h.GetDB(c), who, c.Param("id"), c.Param("itemId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Item removed from campaign", "data": campaign})
}
