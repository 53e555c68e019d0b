// File: internal/services/tenant_services/admin_service.go
package tenant_services

import (
	"context"
	"errors"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/tenant"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/user"
	"github.com/multisolucioneslv/erp-assistant/internal/services/assistant"
)

// AIConfig is the tenant-visible view of the assistant configuration.
// Credentials are reported as presence only, never echoed back.
type AIConfig struct {
	Enabled       bool                 `json:"enabled"`
	DetectionMode domain.DetectionMode `json:"detection_mode"`
	Model         string               `json:"model"`
	HasAPIKey     bool                 `json:"has_api_key"`
	BaseURL       string               `json:"base_url"`
	MaxTokens     int                  `json:"max_tokens"`
	Temperature   float64              `json:"temperature"`
	MonthlyBudget *float64             `json:"monthly_budget"`
}

// UsageStats is the tenant's accounting snapshot.
type UsageStats struct {
	TotalQueries    int64    `json:"total_queries"`
	MonthlyUsage    float64  `json:"monthly_usage"`
	MonthlyBudget   *float64 `json:"monthly_budget"`
	UsagePercentage float64  `json:"usage_percentage"`
	UsageResetAt    string   `json:"usage_reset_at,omitempty"`
	LastUsedAt      string   `json:"last_used_at,omitempty"`
}

// GlobalStats aggregates usage across every tenant for platform admins.
type GlobalStats struct {
	TenantCount    int     `json:"tenant_count"`
	EnabledTenants int     `json:"enabled_tenants"`
	TotalQueries   int64   `json:"total_queries"`
	MonthlyUsage   float64 `json:"monthly_usage"`
}

// DetectionPlan describes one intent detection strategy for the admin UI.
type DetectionPlan struct {
	Mode        domain.DetectionMode `json:"mode"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
}

// AdminService covers tenant-admin and platform-admin management of the
// assistant: configuration, per-user access, and usage reporting.
type AdminService struct {
	tenantRepo tenant.TenantRepository
	userRepo   user.UserRepository
	ledger     *LedgerService
	logger     Logger
}

func NewAdminService(
	tenantRepo tenant.TenantRepository,
	userRepo user.UserRepository,
	ledger *LedgerService,
	logger Logger,
) (*AdminService, error) {
	if tenantRepo == nil {
		return nil, assistant.NewValidationError("constructor", "tenant repository is required")
	}
	if userRepo == nil {
		return nil, assistant.NewValidationError("constructor", "user repository is required")
	}
	if ledger == nil {
		return nil, assistant.NewValidationError("constructor", "ledger service is required")
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &AdminService{tenantRepo: tenantRepo, userRepo: userRepo, ledger: ledger, logger: logger}, nil
}

// GetAIConfig returns the tenant's assistant configuration.
func (s *AdminService) GetAIConfig(ctx context.Context, tenantID uint) (*AIConfig, error) {
	t, err := s.findTenant(ctx, tenantID, "get_ai_config")
	if err != nil {
		return nil, err
	}
	return &AIConfig{
		Enabled:       t.AIEnabled,
		DetectionMode: t.AIDetectionMode,
		Model:         t.AIModel,
		HasAPIKey:     t.AIAPIKey != "",
		BaseURL:       t.AIBaseURL,
		MaxTokens:     t.AIMaxTokens,
		Temperature:   t.AITemperature,
		MonthlyBudget: t.AIMonthlyBudget,
	}, nil
}

// UpdateAIConfig applies a partial configuration update. Nil fields are left
// unchanged; a detection mode must name a known strategy.
func (s *AdminService) UpdateAIConfig(ctx context.Context, tenantID uint, update tenant.AIConfigUpdate) error {
	if update.DetectionMode != nil && !update.DetectionMode.Valid() {
		return assistant.NewValidationError("update_ai_config", "unknown detection mode: "+string(*update.DetectionMode))
	}
	if update.MaxTokens != nil && *update.MaxTokens < 0 {
		return assistant.NewValidationError("update_ai_config", "max tokens must not be negative")
	}
	if update.Temperature != nil && (*update.Temperature < 0 || *update.Temperature > 2) {
		return assistant.NewValidationError("update_ai_config", "temperature must be between 0 and 2")
	}
	if update.MonthlyBudget != nil && *update.MonthlyBudget < 0 {
		return assistant.NewValidationError("update_ai_config", "monthly budget must not be negative")
	}

	if err := s.tenantRepo.UpdateAIConfig(ctx, tenantID, update); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return assistant.NewNotFoundError("update_ai_config", "tenant not found")
		}
		return assistant.NewInternalError("update_ai_config", err)
	}
	s.logger.Info("AI config updated", "tenant_id", tenantID)
	return nil
}

// SetUserAIAccess grants or revokes a user's assistant access. The user must
// belong to the tenant.
func (s *AdminService) SetUserAIAccess(ctx context.Context, tenantID, userID uint, allowed bool) error {
	if err := s.userRepo.SetAIAccess(ctx, userID, tenantID, allowed); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return assistant.NewNotFoundError("set_user_ai_access", "user not found")
		}
		return assistant.NewInternalError("set_user_ai_access", err)
	}
	s.logger.Info("user AI access changed", "tenant_id", tenantID, "user_id", userID, "allowed", allowed)
	return nil
}

// TenantUsage returns the accounting snapshot for one tenant.
func (s *AdminService) TenantUsage(ctx context.Context, tenantID uint) (*UsageStats, error) {
	t, err := s.findTenant(ctx, tenantID, "tenant_usage")
	if err != nil {
		return nil, err
	}
	stats := &UsageStats{
		TotalQueries:    t.AITotalQueries,
		MonthlyUsage:    t.AIMonthlyUsage,
		MonthlyBudget:   t.AIMonthlyBudget,
		UsagePercentage: t.UsagePercentage(),
	}
	if t.AIUsageResetAt != nil {
		stats.UsageResetAt = t.AIUsageResetAt.Format("2006-01-02")
	}
	if t.AILastUsedAt != nil {
		stats.LastUsedAt = t.AILastUsedAt.Format("2006-01-02 15:04:05")
	}
	return stats, nil
}

// ListTenants returns every tenant for the platform admin console.
func (s *AdminService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.FindAll(ctx)
	if err != nil {
		return nil, assistant.NewInternalError("list_tenants", err)
	}
	return tenants, nil
}

// GlobalUsage aggregates assistant usage across all tenants.
func (s *AdminService) GlobalUsage(ctx context.Context) (*GlobalStats, error) {
	tenants, err := s.tenantRepo.FindAll(ctx)
	if err != nil {
		return nil, assistant.NewInternalError("global_usage", err)
	}
	stats := &GlobalStats{TenantCount: len(tenants)}
	for _, t := range tenants {
		if t.AIEnabled {
			stats.EnabledTenants++
		}
		stats.TotalQueries += t.AITotalQueries
		stats.MonthlyUsage += t.AIMonthlyUsage
	}
	return stats, nil
}

// Plans lists the available intent detection strategies.
func (s *AdminService) Plans() []DetectionPlan {
	return []DetectionPlan{
		{
			Mode:        domain.DetectionModePattern,
			Name:        "Pattern matching",
			Description: "Keyword rules, no extra model calls. Fast and free, Spanish and English vocabulary.",
		},
		{
			Mode:        domain.DetectionModeToolCall,
			Name:        "Tool calling",
			Description: "The model picks a catalog query through function calling. One model call per turn.",
		},
		{
			Mode:        domain.DetectionModeTwoPass,
			Name:        "Two pass",
			Description: "A cheap classification call first, then the main completion. Two model calls per turn.",
		},
	}
}

func (s *AdminService) findTenant(ctx context.Context, tenantID uint, operation string) (*domain.Tenant, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return nil, assistant.NewNotFoundError(operation, "tenant not found")
		}
		return nil, assistant.NewInternalError(operation, err)
	}
	return t, nil
}
