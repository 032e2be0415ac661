package handlers

import (
	"net/http"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/models"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat/conversations")
	{
		chat.GET("", middleware.Authorize(auth.ResourceChat, auth.ActionRead), h.ListConversations)
		chat.POST("", middleware.Authorize(auth.ResourceChat, auth.ActionCreate), h.CreateConversation)
		chat.GET("/:id/messages", middleware.Authorize(auth.ResourceChat, auth.ActionRead), h.GetMessages)
		chat.POST("/:id/messages", middleware.Authorize(auth.ResourceChat, auth.ActionCreate), h.SendMessage)
	}

	admin := rg.Group("/admin/chat/conversations")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.AdminListConversations)
		admin.POST("/:id/messages", h.AdminReply)
	}
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	conversations, err := h.chatService.ListConversations(h.GetDB(c), who.EffectiveUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": conversations})
}

func (h *ChatHandler) CreateConversation(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateConversationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	conversation, err := h.chatService.CreateConversation(c.Request.Context(), h.GetDB(c), who, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"data": conversation})
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	messages, err := h.chatService.GetMessages(h.GetDB(c), who.EffectiveUserID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": messages})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), h.GetDB(c), who, c.Param("id"), req.Content)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"data": msg})
}

// ============================================
// Support desk
// ============================================

func (h *ChatHandler) AdminListConversations(c *gin.Context) {
	status := models.ConversationStatus(c.DefaultQuery("status", string(models.ConversationStatusActive)))
	if status != models.ConversationStatusActive && status != models.ConversationStatusClosed {
		apperrors.HandleError(c, apperrors.NewBadRequestError("status must be ACTIVE or CLOSED"))
		return
	}

	conversations, err := h.chatService.ListByStatus(h.GetDB(c), status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": conversations})
}

func (h *ChatHandler) AdminReply(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.Reply(c.Request.Context(), h.GetDB(c), adminID, c.Param("id"), req.Content)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"data": msg})
}
