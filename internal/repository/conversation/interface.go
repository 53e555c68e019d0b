// File: internal/repository/conversation/interface.go
package conversation

import (
	"context"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

// ConversationRepository handles conversation data operations. Every lookup
// is scoped to the owning tenant and user; a conversation belonging to anyone
// else behaves as if it does not exist.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id, tenantID, userID uint) (*domain.Conversation, error)
	FindByOwner(ctx context.Context, tenantID, userID uint) ([]domain.Conversation, error)
	UpdateTitle(ctx context.Context, id uint, title string) error
	UpdateContext(ctx context.Context, conv *domain.Conversation) error
	TouchActivity(ctx context.Context, id uint) error
	Delete(ctx context.Context, id, tenantID, userID uint) error
	Restore(ctx context.Context, id, tenantID, userID uint) error

	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) ConversationRepository
}
