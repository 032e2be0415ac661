package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryChatRepo keeps conversations in memory with the same closing rules as the SQL repository.
type memoryChatRepo struct {
	conversations map[string]*models.Conversation
	messages      map[string][]models.ChatMessage
	seq           int
}

func newMemoryChatRepo() *memoryChatRepo {
	return &memoryChatRepo{
		conversations: map[string]*models.Conversation{},
		messages:      map[string][]models.ChatMessage{},
	}
}

func (r *memoryChatRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("id-%d", r.seq)
}

func (r *memoryChatRepo) CreateConversation(db *gorm.DB, conversation *models.Conversation, first *models.ChatMessage) error {
	conversation.ID = r.nextID()
	first.ID = r.nextID()
	first.ConversationID = conversation.ID
	r.conversations[conversation.ID] = conversation
	r.messages[conversation.ID] = append(r.messages[conversation.ID], *first)
	return nil
}

func (r *memoryChatRepo) FindConversation(db *gorm.DB, id string) (*models.Conversation, error) {
	c, ok := r.conversations[id]
	if !ok {
		return nil, repositories.ErrConversationNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memoryChatRepo) ListConversations(db *gorm.DB, ownerID string) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range r.conversations {
		if c.UserID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memoryChatRepo) ListByStatus(db *gorm.DB, status models.ConversationStatus) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range r.conversations {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memoryChatRepo) ListMessages(db *gorm.DB, conversationID string) ([]models.ChatMessage, error) {
	return r.messages[conversationID], nil
}

func (r *memoryChatRepo) AddMessage(db *gorm.DB, msg *models.ChatMessage) error {
	msg.ID = r.nextID()
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], *msg)
	r.conversations[msg.ConversationID].LastMessageAt = msg.CreatedAt
	return nil
}

func (r *memoryChatRepo) CloseStale(db *gorm.DB, cutoff, now time.Time, systemMessage string) ([]models.Conversation, error) {
	var closed []models.Conversation
	for _, c := range r.conversations {
		if c.Status != models.ConversationStatusActive || !c.LastMessageAt.Before(cutoff) {
			continue
		}
		closedAt := now
		c.Status = models.ConversationStatusClosed
		c.ClosedAt = &closedAt
		msg := models.ChatMessage{ConversationID: c.ID, SenderType: models.SenderTypeSystem, Content: systemMessage}
		msg.CreatedAt = now
		r.messages[c.ID] = append(r.messages[c.ID], msg)
		closed = append(closed, *c)
	}
	return closed, nil
}

type notification struct {
	userID string
	event  string
}

type recordingNotifier struct {
	user   []notification
	admins []string
}

func (n *recordingNotifier) NotifyUser(userID, event string, payload interface{}) {
	n.user = append(n.user, notification{userID: userID, event: event})
}

func (n *recordingNotifier) NotifyAdmins(event string, payload interface{}) {
	n.admins = append(n.admins, event)
}

type chatFixture struct {
	repo     *memoryChatRepo
	notifier *recordingNotifier
	svc      *chatService
	clock    time.Time
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		repo:     newMemoryChatRepo(),
		notifier: &recordingNotifier{},
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewChatService(f.repo, f.notifier, 15*time.Minute).(*chatService)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *chatFixture) open(t *testing.T, owner string) *models.Conversation {
	t.Helper()
	who := identity.Identity{CallerID: owner, EffectiveUserID: owner}
	conv, err := f.svc.CreateConversation(context.Background(), nil, who, &dto.CreateConversationRequest{
		Subject: "Billing question",
		Message: "My invoice looks wrong",
	})
	require.NoError(t, err)
	return conv
}

func TestAutoCloseStale_ClosesIdleConversationsOnce(t *testing.T) {
	f := newChatFixture()
	stale := f.open(t, "owner-1")

	f.clock = f.clock.Add(10 * time.Minute)
	fresh := f.open(t, "owner-2")

	f.clock = f.clock.Add(6 * time.Minute)

	n, err := f.svc.AutoCloseStale(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.ConversationStatusClosed, f.repo.conversations[stale.ID].Status)
	assert.Equal(t, models.ConversationStatusActive, f.repo.conversations[fresh.ID].Status)

	msgs := f.repo.messages[stale.ID]
	require.Len(t, msgs, 2)
	assert.Equal(t, models.SenderTypeSystem, msgs[1].SenderType)
	assert.Equal(t, AutoCloseMessage, msgs[1].Content)
	assert.Equal(t, []notification{{userID: "owner-1", event: EventConversationClosed}}, f.notifier.user)

	n, err = f.svc.AutoCloseStale(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, f.repo.messages[stale.ID], 2)
	assert.Len(t, f.notifier.user, 1)
}

func TestSendMessage_ClosedConversation(t *testing.T) {
	f := newChatFixture()
	conv := f.open(t, "owner-1")

	f.clock = f.clock.Add(time.Hour)
	_, err := f.svc.AutoCloseStale(context.Background(), nil)
	require.NoError(t, err)

	who := identity.Identity{CallerID: "owner-1", EffectiveUserID: "owner-1"}
	_, err = f.svc.SendMessage(context.Background(), nil, who, conv.ID, "hello?")
	assert.ErrorIs(t, err, apperrors.ErrConversationClosed)
}

func TestSendMessage_OtherOwnerSeesNotFound(t *testing.T) {
	f := newChatFixture()
	conv := f.open(t, "owner-1")

	who := identity.Identity{CallerID: "owner-2", EffectiveUserID: "owner-2"}
	_, err := f.svc.SendMessage(context.Background(), nil, who, conv.ID, "hi")
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
}

func TestSendMessage_KeepsConversationAlive(t *testing.T) {
	f := newChatFixture()
	conv := f.open(t, "owner-1")

	f.clock = f.clock.Add(10 * time.Minute)
	who := identity.Identity{CallerID: "owner-1", EffectiveUserID: "owner-1"}
	_, err := f.svc.SendMessage(context.Background(), nil, who, conv.ID, "still there?")
	require.NoError(t, err)

	f.clock = f.clock.Add(10 * time.Minute)
	n, err := f.svc.AutoCloseStale(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{EventChatMessage, EventChatMessage}, f.notifier.admins)
}

func TestReply_NotifiesOwner(t *testing.T) {
	f := newChatFixture()
	conv := f.open(t, "owner-1")

	msg, err := f.svc.Reply(context.Background(), nil, "admin-1", conv.ID, " On it ")
	require.NoError(t, err)
	assert.Equal(t, models.SenderTypeSupport, msg.SenderType)
	assert.Equal(t, "On it", msg.Content)
	assert.Equal(t, []notification{{userID: "owner-1", event: EventChatMessage}}, f.notifier.user)
}
