// File: internal/repository/user/interface.go
package user

import (
	"context"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

// UserRepository handles user directory lookups for the assistant. Identity
// itself is owned by the wider ERP; the assistant only reads it and flips the
// per-user AI access flag.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByTenantID(ctx context.Context, tenantID uint) ([]domain.User, error)
	SetAIAccess(ctx context.Context, id, tenantID uint, allowed bool) error
}
