// File: internal/handlers/auth_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/multisolucioneslv/erp-assistant/internal/auth"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/user"
)

type AuthHandler struct {
	userRepo  user.UserRepository
	jwtSecret []byte
}

func NewAuthHandler(userRepo user.UserRepository, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, jwtSecret: jwtSecret}
}

// Login exchanges username and password for a signed token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	u, err := h.userRepo.FindByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Printf("[AuthHandler] Login lookup failed: %v", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := u.ValidatePassword(req.Password); err != nil {
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(u.ID, u.TenantID, u.Role, h.jwtSecret)
	if err != nil {
		log.Printf("[AuthHandler] Token generation failed: %v", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"user_id":   u.ID,
		"tenant_id": u.TenantID,
		"role":      u.Role,
	})
}
