// File: internal/domain/tenant.go
package domain

import (
	"time"

	"gorm.io/gorm"
)

// DetectionMode selects which intent-dispatch strategy runs for a tenant.
type DetectionMode string

const (
	DetectionModePattern  DetectionMode = "pattern_matching"
	DetectionModeToolCall DetectionMode = "tool_calling"
	DetectionModeTwoPass  DetectionMode = "two_pass"
)

// Valid reports whether the mode is one of the known strategies.
func (m DetectionMode) Valid() bool {
	switch m {
	case DetectionModePattern, DetectionModeToolCall, DetectionModeTwoPass:
		return true
	}
	return false
}

// Tenant is an isolated customer company. The AI* fields form the tenant's
// assistant configuration and usage ledger.
type Tenant struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"not null;size:200" json:"name"`
	Language string `gorm:"size:10;default:es" json:"language"`

	AIEnabled       bool          `gorm:"default:false" json:"ai_enabled"`
	AIDetectionMode DetectionMode `gorm:"column:ai_detection_mode;size:30;default:pattern_matching" json:"ai_detection_mode"`

	// Optional tenant-owned LLM overrides. Empty values fall back to the
	// system defaults for the duration of a single call.
	AIAPIKey      string  `gorm:"size:200" json:"-"`
	AIBaseURL     string  `gorm:"size:200" json:"-"`
	AIModel       string  `gorm:"size:100" json:"ai_model,omitempty"`
	AIMaxTokens   int     `json:"ai_max_tokens,omitempty"`
	AITemperature float64 `json:"ai_temperature,omitempty"`

	// Usage ledger. Usage and counters only grow within a billing cycle;
	// ResetMonthlyUsage is the one operation allowed to zero them.
	AIMonthlyBudget *float64   `json:"ai_monthly_budget"`
	AIMonthlyUsage  float64    `gorm:"default:0" json:"ai_monthly_usage"`
	AIUsageResetAt  *time.Time `json:"ai_usage_reset_at"`
	AITotalQueries  int64      `gorm:"default:0" json:"ai_total_queries"`
	AILastUsedAt    *time.Time `json:"ai_last_used_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UsagePercentage returns monthly usage as a percentage of the monthly
// budget. A missing or zero budget yields 0 rather than dividing by zero.
func (t *Tenant) UsagePercentage() float64 {
	if t.AIMonthlyBudget == nil || *t.AIMonthlyBudget == 0 {
		return 0
	}
	return t.AIMonthlyUsage / *t.AIMonthlyBudget * 100
}

// EffectiveModel returns the tenant's model override, or fallback when unset.
func (t *Tenant) EffectiveModel(fallback string) string {
	if t.AIModel != "" {
		return t.AIModel
	}
	return fallback
}
