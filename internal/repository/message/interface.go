// File: internal/repository/message/interface.go
package message

import (
	"context"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

// MessageRepository handles message data operations within a conversation.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error)
	FindRecent(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error)
	FindLatest(ctx context.Context, conversationID uint) (*domain.Message, error)
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
	CountByRole(ctx context.Context, conversationID uint, role string) (int64, error)

	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) MessageRepository
}
