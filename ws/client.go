package ws

import (
	"context"
	"encoding/json"
	"time"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/services"
	"outbound_backend/pkg/apperrors"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type sendMessagePayload struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
}

type Client struct {
	UserID   string
	IsAdmin  bool
	Identity identity.Identity
	Conn     *websocket.Conn
	Send     chan Event
	Ctx      context.Context

	Manager     *WebSocketManager
	ChatService services.ChatService
	DB          *gorm.DB
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.CtxWarn(c.Ctx, "WebSocket read error", "error", err.Error())
			}
			return
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			c.reply("error", map[string]string{"message": "Malformed message"})
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				logger.CtxWarn(c.Ctx, "WebSocket write error", "error", err.Error())
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {
	case "send_message":
		var input sendMessagePayload
		if err := json.Unmarshal(msg.Data, &input); err != nil || input.ConversationID == "" || input.Content == "" {
			c.reply("error", map[string]string{"message": "conversationId and content are required"})
			return
		}

		var (
			created interface{}
			err     error
		)
		switch {
		case c.IsAdmin:
			created, err = c.ChatService.Reply(c.Ctx, c.DB, c.Identity.CallerID, input.ConversationID, input.Content)
		case !auth.Allows(c.Identity.TeamRole, auth.ResourceChat, auth.ActionCreate):
			err = apperrors.ErrRolePermission
		default:
			created, err = c.ChatService.SendMessage(c.Ctx, c.DB, c.Identity, input.ConversationID, input.Content)
		}
		if err != nil {
			logger.CtxWarn(c.Ctx, "Failed to send chat message", "error", err.Error())
			c.reply("error", map[string]string{"message": errorMessage(err)})
			return
		}
		c.reply(services.EventChatMessage, created)

	case "ping":
		c.reply("pong", nil)

	default:
		c.reply("error", map[string]string{"message": "Unknown action: " + msg.Action})
	}
}

// reply goes through the hub so the send channel is only ever closed by it.
func (c *Client) reply(event string, data interface{}) {
	c.Manager.enqueueTo(c, Event{Event: event, Data: data})
}

func errorMessage(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode < 500 {
		return appErr.Message
	}
	return "Internal server error"
}
