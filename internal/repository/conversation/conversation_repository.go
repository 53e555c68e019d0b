// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) WithTx(tx *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: tx}
}

func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if conv == nil || conv.TenantID == 0 || conv.UserID == 0 {
		return nil, errors.New("tenant ID and user ID are required")
	}
	if conv.LastActivityAt.IsZero() {
		conv.LastActivityAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id, tenantID, userID uint) (*domain.Conversation, error) {
	if id == 0 || tenantID == 0 || userID == 0 {
		return nil, errors.New("invalid conversation, tenant or user ID")
	}
	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND user_id = ?", id, tenantID, userID).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// FindByOwner lists the owner's active conversations, most recently used
// first. Listing order is defined by last activity, not creation time.
func (r *gormConversationRepository) FindByOwner(ctx context.Context, tenantID, userID uint) ([]domain.Conversation, error) {
	if tenantID == 0 || userID == 0 {
		return nil, errors.New("invalid tenant or user ID")
	}
	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("last_activity_at DESC, id DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *gormConversationRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("title", title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *gormConversationRepository) UpdateContext(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil || conv.ID == 0 {
		return errors.New("invalid conversation")
	}
	return r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conv.ID).
		Update("context", conv.Context).Error
}

func (r *gormConversationRepository) TouchActivity(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid conversation ID")
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("last_activity_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// Delete soft-deletes; the row survives and Restore can bring it back.
func (r *gormConversationRepository) Delete(ctx context.Context, id, tenantID, userID uint) error {
	if id == 0 || tenantID == 0 || userID == 0 {
		return errors.New("invalid conversation, tenant or user ID")
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND user_id = ?", id, tenantID, userID).
		Delete(&domain.Conversation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *gormConversationRepository) Restore(ctx context.Context, id, tenantID, userID uint) error {
	if id == 0 || tenantID == 0 || userID == 0 {
		return errors.New("invalid conversation, tenant or user ID")
	}
	result := r.db.WithContext(ctx).
		Unscoped().
		Model(&domain.Conversation{}).
		Where("id = ? AND tenant_id = ? AND user_id = ?", id, tenantID, userID).
		Update("deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}
