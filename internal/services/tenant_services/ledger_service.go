// File: internal/services/tenant_services/ledger_service.go
package tenant_services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/tenant"
	"github.com/multisolucioneslv/erp-assistant/internal/services/assistant"
)

// Logger mirrors the shared logging surface so the package stays stubable.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

// LedgerService keeps the per-tenant AI usage accounting: the running query
// counter, the monthly spend, and the monthly reset cycle.
type LedgerService struct {
	tenantRepo tenant.TenantRepository
	logger     Logger
}

func NewLedgerService(tenantRepo tenant.TenantRepository, logger Logger) (*LedgerService, error) {
	if tenantRepo == nil {
		return nil, assistant.NewValidationError("constructor", "tenant repository is required")
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &LedgerService{tenantRepo: tenantRepo, logger: logger}, nil
}

// WithTx returns a ledger bound to the given transaction.
func (s *LedgerService) WithTx(tx *gorm.DB) *LedgerService {
	return &LedgerService{tenantRepo: s.tenantRepo.WithTx(tx), logger: s.logger}
}

// IsEnabled reports whether the tenant may use the assistant at all.
func (s *LedgerService) IsEnabled(ctx context.Context, tenantID uint) (bool, error) {
	t, err := s.findTenant(ctx, tenantID, "is_enabled")
	if err != nil {
		return false, err
	}
	return t.AIEnabled, nil
}

// RecordQuery accounts one completed assistant query for the tenant. The
// counter always advances by one; the monthly usage advances by cost when
// cost is positive.
func (s *LedgerService) RecordQuery(ctx context.Context, tenantID uint, cost float64) error {
	if err := s.tenantRepo.RecordUsage(ctx, tenantID, cost, time.Now()); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return assistant.NewNotFoundError("record_query", "tenant not found")
		}
		return assistant.NewAccountingError("record_query", err)
	}
	return nil
}

// UsagePercentage reports monthly usage against the tenant's budget.
// Tenants without a positive budget always report zero.
func (s *LedgerService) UsagePercentage(ctx context.Context, tenantID uint) (float64, error) {
	t, err := s.findTenant(ctx, tenantID, "usage_percentage")
	if err != nil {
		return 0, err
	}
	return t.UsagePercentage(), nil
}

// ResetMonthlyUsage zeroes the tenant's monthly spend and schedules the next
// reset one month out, at the start of the day. The lifetime query counter is
// never touched.
func (s *LedgerService) ResetMonthlyUsage(ctx context.Context, tenantID uint) error {
	next := nextResetDate(time.Now())
	if err := s.tenantRepo.ResetMonthlyUsage(ctx, tenantID, next); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return assistant.NewNotFoundError("reset_usage", "tenant not found")
		}
		return assistant.NewAccountingError("reset_usage", err)
	}
	s.logger.Info("monthly AI usage reset", "tenant_id", tenantID, "next_reset", next)
	return nil
}

// Toggle switches the assistant on or off for a tenant. The first enable
// seeds the monthly reset date so the cycle has an anchor.
func (s *LedgerService) Toggle(ctx context.Context, tenantID uint, enabled bool) error {
	t, err := s.findTenant(ctx, tenantID, "toggle")
	if err != nil {
		return err
	}

	var resetAt *time.Time
	if enabled && t.AIUsageResetAt == nil {
		next := nextResetDate(time.Now())
		resetAt = &next
	}
	if err := s.tenantRepo.SetAIEnabled(ctx, tenantID, enabled, resetAt); err != nil {
		return assistant.NewInternalError("toggle", err)
	}
	s.logger.Info("AI assistant toggled", "tenant_id", tenantID, "enabled", enabled)
	return nil
}

func (s *LedgerService) findTenant(ctx context.Context, tenantID uint, operation string) (*domain.Tenant, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return nil, assistant.NewNotFoundError(operation, "tenant not found")
		}
		return nil, assistant.NewInternalError(operation, err)
	}
	return t, nil
}

// nextResetDate is one month after now, truncated to the start of the day.
func nextResetDate(now time.Time) time.Time {
	next := now.AddDate(0, 1, 0)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, next.Location())
}
