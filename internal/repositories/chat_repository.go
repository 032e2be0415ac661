package repositories

import (
	"errors"
	"time"

	"outbound_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ChatRepository interface {
	// CreateConversation stores the conversation together with its opening message.
	CreateConversation(db *gorm.DB, conversation *models.Conversation, first *models.ChatMessage) error
	FindConversation(db *gorm.DB, id string) (*models.Conversation, error)
	ListConversations(db *gorm.DB, ownerID string) ([]models.Conversation, error)
	ListByStatus(db *gorm.DB, status models.ConversationStatus) ([]models.Conversation, error)
	ListMessages(db *gorm.DB, conversationID string) ([]models.ChatMessage, error)
	// AddMessage stores msg and bumps the conversation's lastMessageAt.
	AddMessage(db *gorm.DB, msg *models.ChatMessage) error
	// CloseStale closes every ACTIVE conversation idle since before cutoff and appends
	// one system message to each. It returns the conversations it closed.
	CloseStale(db *gorm.DB, cutoff, now time.Time, systemMessage string) ([]models.Conversation, error)
}

type chatRepository struct{}

func NewChatRepository() ChatRepository {
	return &chatRepository{}
}

func (r *chatRepository) CreateConversation(db *gorm.DB, conversation *models.Conversation, first *models.ChatMessage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conversation).Error; err != nil {
			return err
		}
		first.ConversationID = conversation.ID
		return tx.Create(first).Error
	})
}

func (r *chatRepository) FindConversation(db *gorm.DB, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := db.First(&conversation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *chatRepository) ListConversations(db *gorm.DB, ownerID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := db.Where("user_id = ?", ownerID).
		Order("last_message_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *chatRepository) ListByStatus(db *gorm.DB, status models.ConversationStatus) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := db.Where("status = ?", status).
		Order("last_message_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *chatRepository) ListMessages(db *gorm.DB, conversationID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *chatRepository) AddMessage(db *gorm.DB, msg *models.ChatMessage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", msg.CreatedAt).Error
	})
}

func (r *chatRepository) CloseStale(db *gorm.DB, cutoff, now time.Time, systemMessage string) ([]models.Conversation, error) {
	var closed []models.Conversation

	err := db.Transaction(func(tx *gorm.DB) error {
		// The status guard in the UPDATE keeps overlapping runs from closing a row twice.
		result := tx.Model(&closed).
			Clauses(clause.Returning{}).
			Where("status = ? AND last_message_at < ?", models.ConversationStatusActive, cutoff).
			Updates(map[string]interface{}{
				"status":     models.ConversationStatusClosed,
				"closed_at":  now,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if len(closed) == 0 {
			return nil
		}

		messages := make([]models.ChatMessage, 0, len(closed))
		for _, conversation := range closed {
			messages = append(messages, models.ChatMessage{
				ConversationID: conversation.ID,
				SenderType:     models.SenderTypeSystem,
				Content:        systemMessage,
			})
		}
		return tx.Create(&messages).Error
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}
