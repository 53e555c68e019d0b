// File: internal/repository/tenant/interface.go
package tenant

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

// AIConfigUpdate carries the mutable assistant configuration fields. Nil
// pointers mean "leave unchanged".
type AIConfigUpdate struct {
	DetectionMode *domain.DetectionMode
	APIKey        *string
	BaseURL       *string
	Model         *string
	MaxTokens     *int
	Temperature   *float64
	MonthlyBudget *float64
	ClearBudget   bool
}

// TenantRepository handles tenant records and the AI usage ledger columns.
type TenantRepository interface {
	Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error)
	FindByID(ctx context.Context, id uint) (*domain.Tenant, error)
	FindAll(ctx context.Context) ([]domain.Tenant, error)
	UpdateAIConfig(ctx context.Context, id uint, update AIConfigUpdate) error
	SetAIEnabled(ctx context.Context, id uint, enabled bool, resetAt *time.Time) error

	// RecordUsage bumps the query counter and last-used timestamp, and adds
	// cost to the monthly usage, all as in-database increments so concurrent
	// turns from the same tenant never lose updates.
	RecordUsage(ctx context.Context, id uint, cost float64, usedAt time.Time) error
	ResetMonthlyUsage(ctx context.Context, id uint, nextResetAt time.Time) error

	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) TenantRepository
}
