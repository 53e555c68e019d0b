// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) WithTx(tx *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: tx}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if err := validateMessage(msg); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// FindByConversationID returns the full history in chronological order.
func (r *gormMessageRepository) FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// FindRecent returns the most recent limit messages. The query reads newest
// first; the slice is reversed in place before returning so callers always
// see oldest-first history.
func (r *gormMessageRepository) FindRecent(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error) {
	if conversationID == 0 || limit <= 0 {
		return nil, errors.New("invalid parameters")
	}
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// FindLatest returns the newest message of a conversation, or nil when the
// conversation is empty.
func (r *gormMessageRepository) FindLatest(ctx context.Context, conversationID uint) (*domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}
	var msg domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *gormMessageRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	if conversationID == 0 {
		return 0, errors.New("invalid conversation ID")
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}

func (r *gormMessageRepository) CountByRole(ctx context.Context, conversationID uint, role string) (int64, error) {
	if conversationID == 0 {
		return 0, errors.New("invalid conversation ID")
	}
	if !domain.ValidRole(role) {
		return 0, errors.New("invalid message role")
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ? AND role = ?", conversationID, role).
		Count(&count).Error
	return count, err
}

func validateMessage(msg *domain.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}
	if msg.ConversationID == 0 {
		return errors.New("conversation ID is required")
	}
	if !domain.ValidRole(msg.Role) {
		return errors.New("invalid message role")
	}
	if strings.TrimSpace(msg.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	return nil
}
