// File: internal/handlers/tenant_admin_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/middleware"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/tenant"
	"github.com/multisolucioneslv/erp-assistant/internal/services/tenant_services"
)

// TenantAdminHandler exposes a tenant admin's view of the assistant: its
// configuration, per-user access, and usage.
type TenantAdminHandler struct {
	adminService *tenant_services.AdminService
	ledger       *tenant_services.LedgerService
}

func NewTenantAdminHandler(adminService *tenant_services.AdminService, ledger *tenant_services.LedgerService) *TenantAdminHandler {
	return &TenantAdminHandler{adminService: adminService, ledger: ledger}
}

// GetAIConfig returns the tenant's assistant configuration.
func (h *TenantAdminHandler) GetAIConfig(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cfg, err := h.adminService.GetAIConfig(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// UpdateAIConfig applies a partial configuration update.
func (h *TenantAdminHandler) UpdateAIConfig(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
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

// SetUserAccess grants or revokes one user's assistant access.
func (h *TenantAdminHandler) SetUserAccess(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Allowed bool `json:"allowed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.adminService.SetUserAIAccess(r.Context(), tenantID, userID, req.Allowed); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Usage returns the tenant's accounting snapshot.
func (h *TenantAdminHandler) Usage(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.adminService.TenantUsage(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Plans lists the available intent detection strategies.
func (h *TenantAdminHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.adminService.Plans())
}
