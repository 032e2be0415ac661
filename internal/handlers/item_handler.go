package handlers

import (
	"net/http"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	*BaseHandler
	itemService services.ItemService
}

func NewItemHandler(base *BaseHandler, itemService services.ItemService) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		itemService: itemService,
	}
}

func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.GET("", middleware.Authorize(auth.ResourceItem, auth.ActionRead), h.List)
		items.POST("", middleware.Authorize(auth.ResourceItem, auth.ActionCreate), h.Create)
		items.GET("/:id", middleware.Authorize(auth.ResourceItem, auth.ActionRead), h.Get)
		items.PUT("/:id", middleware.Authorize(auth.ResourceItem, auth.ActionUpdate), h.Update)
		items.DELETE("/:id", middleware.Authorize(auth.ResourceItem, auth.ActionDelete), h.Delete)
	}
}

func (h *ItemHandler) List(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var query dto.ItemListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.itemService.List(h.GetDB(c), who.EffectiveUserID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": result})
}

func (h *ItemHandler) Get(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	item, err := h.itemService.Get(h.GetDB(c), who.EffectiveUserID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": item})
}

func (h *ItemHandler) Create(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), h.GetDB(c), who, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "Item created", "data": item})
}

func (h *ItemHandler) Update(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), h.GetDB(c), who, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Item updated", "data": item})
}

func (h *ItemHandler) Delete(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), h.GetDB(c), who, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Item deleted")
}
