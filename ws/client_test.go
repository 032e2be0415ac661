package ws

import (
	"context"
	"encoding/json"
	"testing"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/models"
	"outbound_backend/internal/services"
	"outbound_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChatService struct {
	services.ChatService

	sent    []identity.Identity
	replies []string // admin IDs
}

func (f *fakeChatService) SendMessage(_ context.Context, _ *gorm.DB, who identity.Identity, conversationID, content string) (*models.ChatMessage, error) {
	f.sent = append(f.sent, who)
	return &models.ChatMessage{ConversationID: conversationID, SenderType: models.SenderTypeUser, Content: content}, nil
}

func (f *fakeChatService) Reply(_ context.Context, _ *gorm.DB, adminID, conversationID, content string) (*models.ChatMessage, error) {
	f.replies = append(f.replies, adminID)
	return &models.ChatMessage{ConversationID: conversationID, SenderID: &adminID, SenderType: models.SenderTypeSupport, Content: content}, nil
}

func chatClient(t *testing.T, who identity.Identity, admin bool, chat services.ChatService) *Client {
	t.Helper()
	manager := startManager(t)
	client := &Client{
		UserID:      who.EffectiveUserID,
		IsAdmin:     admin,
		Identity:    who,
		Send:        make(chan Event, 4),
		Ctx:         context.Background(),
		Manager:     manager,
		ChatService: chat,
	}
	require.True(t, manager.Register(client))
	return client
}

func sendMessage(t *testing.T, client *Client) {
	t.Helper()
	data, err := json.Marshal(sendMessagePayload{ConversationID: "conv-1", Content: "hello"})
	require.NoError(t, err)
	client.handleMessage(IncomingWSMessage{Action: "send_message", Data: data})
}

func member(role models.TeamRole) identity.Identity {
	return identity.Identity{CallerID: "member-1", EffectiveUserID: "owner-1", TeamRole: &role}
}

func TestSendMessage_ViewerIsRejected(t *testing.T) {
	chat := &fakeChatService{}
	client := chatClient(t, member(models.TeamRoleViewer), false, chat)

	sendMessage(t, client)

	event := receive(t, client)
	assert.Equal(t, "error", event.Event)
	assert.Equal(t, map[string]string{"message": apperrors.ErrRolePermission.Message}, event.Data)
	assert.Empty(t, chat.sent)
}

func TestSendMessage_EditorAndOwnerAreAllowed(t *testing.T) {
	for name, who := range map[string]identity.Identity{
		"editor": member(models.TeamRoleEditor),
		"owner":  {CallerID: "owner-1", EffectiveUserID: "owner-1"},
	} {
		t.Run(name, func(t *testing.T) {
			chat := &fakeChatService{}
			client := chatClient(t, who, false, chat)

			sendMessage(t, client)

			assert.Equal(t, services.EventChatMessage, receive(t, client).Event)
			require.Len(t, chat.sent, 1)
			assert.Equal(t, who, chat.sent[0])
		})
	}
}

func TestSendMessage_AdminReplyUsesCallerID(t *testing.T) {
	chat := &fakeChatService{}
	role := models.TeamRoleViewer
	admin := identity.Identity{CallerID: "admin-1", EffectiveUserID: "owner-1", TeamRole: &role}
	client := chatClient(t, admin, true, chat)

	sendMessage(t, client)

	assert.Equal(t, services.EventChatMessage, receive(t, client).Event)
	assert.Equal(t, []string{"admin-1"}, chat.replies)
	assert.Empty(t, chat.sent)
}
