// File: internal/repository/tenant/tenant_repository.go
package tenant

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
)

var ErrTenantNotFound = errors.New("tenant not found")

type gormTenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &gormTenantRepository{db: db}
}

func (r *gormTenantRepository) WithTx(tx *gorm.DB) TenantRepository {
	return &gormTenantRepository{db: tx}
}

func (r *gormTenantRepository) Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	if t == nil || t.Name == "" {
		return nil, errors.New("tenant name is required")
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *gormTenantRepository) FindByID(ctx context.Context, id uint) (*domain.Tenant, error) {
	if id == 0 {
		return nil, errors.New("invalid tenant ID")
	}
	var t domain.Tenant
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *gormTenantRepository) FindAll(ctx context.Context) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *gormTenantRepository) UpdateAIConfig(ctx context.Context, id uint, update AIConfigUpdate) error {
	if id == 0 {
		return errors.New("invalid tenant ID")
	}
	fields := map[string]interface{}{}
	if update.DetectionMode != nil {
		fields["ai_detection_mode"] = *update.DetectionMode
	}
	if update.APIKey != nil {
		fields["ai_api_key"] = *update.APIKey
	}
	if update.BaseURL != nil {
		fields["ai_base_url"] = *update.BaseURL
	}
	if update.Model != nil {
		fields["ai_model"] = *update.Model
	}
	if update.MaxTokens != nil {
		fields["ai_max_tokens"] = *update.MaxTokens
	}
	if update.Temperature != nil {
		fields["ai_temperature"] = *update.Temperature
	}
	if update.ClearBudget {
		fields["ai_monthly_budget"] = nil
	} else if update.MonthlyBudget != nil {
		fields["ai_monthly_budget"] = *update.MonthlyBudget
	}
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (r *gormTenantRepository) SetAIEnabled(ctx context.Context, id uint, enabled bool, resetAt *time.Time) error {
	if id == 0 {
		return errors.New("invalid tenant ID")
	}
	fields := map[string]interface{}{"ai_enabled": enabled}
	if resetAt != nil {
		fields["ai_usage_reset_at"] = *resetAt
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// RecordUsage uses SQL-side increments rather than read-modify-write so that
// concurrent turns from the same tenant cannot race the counters.
func (r *gormTenantRepository) RecordUsage(ctx context.Context, id uint, cost float64, usedAt time.Time) error {
	if id == 0 {
		return errors.New("invalid tenant ID")
	}
	fields := map[string]interface{}{
		"ai_total_queries": gorm.Expr("ai_total_queries + 1"),
		"ai_last_used_at":  usedAt,
	}
	if cost > 0 {
		fields["ai_monthly_usage"] = gorm.Expr("ai_monthly_usage + ?", cost)
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (r *gormTenantRepository) ResetMonthlyUsage(ctx context.Context, id uint, nextResetAt time.Time) error {
	if id == 0 {
		return errors.New("invalid tenant ID")
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_monthly_usage":  0,
			"ai_usage_reset_at": nextResetAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}
	return nil
}
