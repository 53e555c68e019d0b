// File: internal/handlers/platform_admin_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/tenant"
	"github.com/multisolucioneslv/erp-assistant/internal/services/tenant_services"
)

// PlatformAdminHandler is the cross-tenant management surface.
type PlatformAdminHandler struct {
	adminService *tenant_services.AdminService
	ledger       *tenant_services.LedgerService
}

func NewPlatformAdminHandler(adminService *tenant_services.AdminService, ledger *tenant_services.LedgerService) *PlatformAdminHandler {
	return &PlatformAdminHandler{adminService: adminService, ledger: ledger}
}

// ListTenants returns every tenant.
func (h *PlatformAdminHandler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.adminService.ListTenants(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tenants)
}

// ToggleAI enables or disables the assistant for a tenant.
func (h *PlatformAdminHandler) ToggleAI(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.ledger.Toggle(r.Context(), tenantID, req.Enabled); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ResetUsage zeroes a tenant's monthly spend and schedules the next cycle.
func (h *PlatformAdminHandler) ResetUsage(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	if err := h.ledger.ResetMonthlyUsage(r.Context(), tenantID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// UpdateTenantAIConfig edits any tenant's assistant configuration.
func (h *PlatformAdminHandler) UpdateTenantAIConfig(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	var req struct {
		DetectionMode *string  `json:"detection_mode"`
		APIKey        *string  `json:"api_key"`
		BaseURL       *string  `json:"base_url"`
		Model         *string  `json:"model"`
		MaxTokens     *int     `json:"max_tokens"`
		Temperature   *float64 `json:"temperature"`
		MonthlyBudget *float64 `json:"monthly_budget"`
		ClearBudget   bool     `json:"clear_budget"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	update := tenant.AIConfigUpdate{
		APIKey:        req.APIKey,
		BaseURL:       req.BaseURL,
		Model:         req.Model,
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
		MonthlyBudget: req.MonthlyBudget,
		ClearBudget:   req.ClearBudget,
	}
	if req.DetectionMode != nil {
		mode := domain.DetectionMode(*req.DetectionMode)
		update.DetectionMode = &mode
	}

	if err := h.adminService.UpdateAIConfig(r.Context(), tenantID, update); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// TenantUsage returns one tenant's accounting snapshot.
func (h *PlatformAdminHandler) TenantUsage(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	stats, err := h.adminService.TenantUsage(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GlobalUsage aggregates usage across all tenants.
func (h *PlatformAdminHandler) GlobalUsage(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GlobalUsage(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
