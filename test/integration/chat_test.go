package integration_test

import (
	"context"
	"testing"
	"time"

	"outbound_backend/internal/models"
	"outbound_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoCloseStaleConversations(t *testing.T) {
	ts := GetTestServer(t)
	owner := helpers.RegisterAccount(t, ts, "chatter")
	ctx := context.Background()

	stale := models.Conversation{
		UserID:        owner.ID,
		Subject:       "Billing question",
		Status:        models.ConversationStatusActive,
		LastMessageAt: time.Now().Add(-30 * time.Minute),
	}
	fresh := models.Conversation{
		UserID:        owner.ID,
		Subject:       "Upload help",
		Status:        models.ConversationStatusActive,
		LastMessageAt: time.Now(),
	}
	require.NoError(t, ts.DB.Create(&stale).Error)
	require.NoError(t, ts.DB.Create(&fresh).Error)
	require.NotEmpty(t, stale.ID)

	chat := ts.App.Services.ChatService

	closed, err := chat.AutoCloseStale(ctx, ts.DB)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	var reloaded models.Conversation
	require.NoError(t, ts.DB.First(&reloaded, "id = ?", stale.ID).Error)
	assert.Equal(t, models.ConversationStatusClosed, reloaded.Status)
	assert.NotNil(t, reloaded.ClosedAt)

	require.NoError(t, ts.DB.First(&reloaded, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.ConversationStatusActive, reloaded.Status)

	var systemMessages int64
	require.NoError(t, ts.DB.Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND sender_type = ?", stale.ID, models.SenderTypeSystem).
		Count(&systemMessages).Error)
	assert.Equal(t, int64(1), systemMessages)

	closed, err = chat.AutoCloseStale(ctx, ts.DB)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)

	require.NoError(t, ts.DB.Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND sender_type = ?", stale.ID, models.SenderTypeSystem).
		Count(&systemMessages).Error)
	assert.Equal(t, int64(1), systemMessages)
}
