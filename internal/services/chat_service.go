package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Realtime event names
const (
	EventChatMessage        = "chat.message"
	EventConversationClosed = "chat.conversation_closed"
)

// AutoCloseMessage is appended to conversations closed for inactivity.
const AutoCloseMessage = "This conversation was closed due to inactivity. Start a new conversation if you still need help."

// Notifier pushes realtime events to connected clients.
type Notifier interface {
	NotifyUser(userID, event string, payload interface{})
	NotifyAdmins(event string, payload interface{})
}

type ChatService interface {
	ListConversations(db *gorm.DB, ownerID string) ([]models.Conversation, error)
	CreateConversation(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CreateConversationRequest) (*models.Conversation, error)
	GetMessages(db *gorm.DB, ownerID, conversationID string) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, db *gorm.DB, who identity.Identity, conversationID, content string) (*models.ChatMessage, error)

	// Support side
	ListByStatus(db *gorm.DB, status models.ConversationStatus) ([]models.Conversation, error)
	Reply(ctx context.Context, db *gorm.DB, adminID, conversationID, content string) (*models.ChatMessage, error)

	// AutoCloseStale closes conversations idle longer than the configured timeout.
	AutoCloseStale(ctx context.Context, db *gorm.DB) (int, error)
}

type chatService struct {
	chatRepo    repositories.ChatRepository
	notifier    Notifier
	idleTimeout time.Duration
	now         func() time.Time
}

func NewChatService(chatRepo repositories.ChatRepository, notifier Notifier, idleTimeout time.Duration) ChatService {
	if idleTimeout <= 0 {
		idleTimeout = 15 * time.Minute
	}
	return &chatService{
		chatRepo:    chatRepo,
		notifier:    notifier,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

func (s *chatService) ListConversations(db *gorm.DB, ownerID string) ([]models.Conversation, error) {
	conversations, err := s.chatRepo.ListConversations(db, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return conversations, nil
}

func (s *chatService) CreateConversation(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CreateConversationRequest) (*models.Conversation, error) {
	now := s.now()
	conversation := &models.Conversation{
		UserID:        who.EffectiveUserID,
		Subject:       strings.TrimSpace(req.Subject),
		Status:        models.ConversationStatusActive,
		LastMessageAt: now,
	}
	callerID := who.CallerID
	first := &models.ChatMessage{
		SenderID:   &callerID,
		SenderType: models.SenderTypeUser,
		Content:    strings.TrimSpace(req.Message),
	}
	first.CreatedAt = now

	if err := s.chatRepo.CreateConversation(db, conversation, first); err != nil {
		return nil, apperrors.InternalError(err)
	}
	conversation.Messages = []models.ChatMessage{*first}

	s.notifier.NotifyAdmins(EventChatMessage, first)
	logger.CtxInfo(ctx, "Support conversation opened", "conversation_id", conversation.ID)
	return conversation, nil
}

func (s *chatService) GetMessages(db *gorm.DB, ownerID, conversationID string) ([]models.ChatMessage, error) {
	if _, err := s.ownedConversation(db, ownerID, conversationID); err != nil {
		return nil, err
	}
	messages, err := s.chatRepo.ListMessages(db, conversationID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return messages, nil
}

func (s *chatService) SendMessage(ctx context.Context, db *gorm.DB, who identity.Identity, conversationID, content string) (*models.ChatMessage, error) {
	conversation, err := s.ownedConversation(db, who.EffectiveUserID, conversationID)
	if err != nil {
		return nil, err
	}

	callerID := who.CallerID
	msg, err := s.addMessage(db, conversation, &callerID, models.SenderTypeUser, content)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyAdmins(EventChatMessage, msg)
	return msg, nil
}

func (s *chatService) ListByStatus(db *gorm.DB, status models.ConversationStatus) ([]models.Conversation, error) {
	conversations, err := s.chatRepo.ListByStatus(db, status)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return conversations, nil
}

func (s *chatService) Reply(ctx context.Context, db *gorm.DB, adminID, conversationID, content string) (*models.ChatMessage, error) {
	conversation, err := s.chatRepo.FindConversation(db, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	msg, err := s.addMessage(db, conversation, &adminID, models.SenderTypeSupport, content)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyUser(conversation.UserID, EventChatMessage, msg)
	return msg, nil
}

func (s *chatService) AutoCloseStale(ctx context.Context, db *gorm.DB) (int, error) {
	now := s.now()
	closed, err := s.chatRepo.CloseStale(db, now.Add(-s.idleTimeout), now, AutoCloseMessage)
	if err != nil {
		return 0, err
	}

	for _, conversation := range closed {
		s.notifier.NotifyUser(conversation.UserID, EventConversationClosed, map[string]interface{}{
			"conversationId": conversation.ID,
			"closedAt":       now,
		})
	}
	return len(closed), nil
}

func (s *chatService) addMessage(db *gorm.DB, conversation *models.Conversation, senderID *string, senderType models.SenderType, content string) (*models.ChatMessage, error) {
	if conversation.Status != models.ConversationStatusActive {
		return nil, apperrors.ErrConversationClosed
	}

	msg := &models.ChatMessage{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		SenderType:     senderType,
		Content:        strings.TrimSpace(content),
	}
	msg.CreatedAt = s.now()

	if err := s.chatRepo.AddMessage(db, msg); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return msg, nil
}

func (s *chatService) ownedConversation(db *gorm.DB, ownerID, conversationID string) (*models.Conversation, error) {
	conversation, err := s.chatRepo.FindConversation(db, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if conversation.UserID != ownerID {
		return nil, apperrors.ErrConversationNotFound
	}
	return conversation, nil
}
