package ws

import (
	"context"
	"net/http"

	"outbound_backend/internal/middleware"
	"outbound_backend/internal/models"
	"outbound_backend/internal/services"
	"outbound_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	Manager        *WebSocketManager
	chatService    services.ChatService
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
}

// NewWebSocketHandler accepts upgrades from allowedOrigins; none means any origin.
func NewWebSocketHandler(manager *WebSocketManager, chatService services.ChatService, allowedOrigins ...string) *WebSocketHandler {
	h := &WebSocketHandler{
		Manager:        manager,
		chatService:    chatService,
		allowedOrigins: make(map[string]bool),
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = true
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin:     h.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || h.allowedOrigins[origin]
}

// ServeWS upgrades an authenticated request to a chat connection.
// Auth, DB and identity middleware must have run.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	who, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	client := &Client{
		UserID:      who.EffectiveUserID,
		IsAdmin:     middleware.GetUserRole(c) == models.UserRoleAdmin,
		Identity:    who,
		Conn:        conn,
		Send:        make(chan Event, 256),
		Ctx:         ctx,
		Manager:     h.Manager,
		ChatService: h.chatService,
		DB:          middleware.GetDB(c).WithContext(ctx),
	}

	if !h.Manager.Register(client) {
		conn.Close()
		return
	}

	go client.readPump()
	go client.writePump()
}
