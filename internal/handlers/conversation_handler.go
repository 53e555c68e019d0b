// File: internal/handlers/conversation_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/multisolucioneslv/erp-assistant/internal/middleware"
	"github.com/multisolucioneslv/erp-assistant/internal/services"
)

type ConversationHandler struct {
	convService      *services.ConversationService
	assistantService *services.AssistantService
}

func NewConversationHandler(convService *services.ConversationService, assistantService *services.AssistantService) *ConversationHandler {
	return &ConversationHandler{
		convService:      convService,
		assistantService: assistantService,
	}
}

// List returns the caller's conversations, most recently active first.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := identity(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summaries, err := h.convService.ListConversations(r.Context(), tenantID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Create starts a new conversation, optionally titled.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := identity(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil {
		// An empty body means an untitled conversation.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	conv, err := h.convService.CreateConversation(r.Context(), tenantID, userID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// Get returns one conversation with its full message history.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := identity(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	convID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	result, err := h.convService.GetConversationWithHistory(r.Context(), convID, tenantID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SendMessage runs one chat turn against the conversation.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := identity(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	convID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.assistantService.SendMessage(r.Context(), tenantID, userID, convID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete logically removes a conversation.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := identity(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	convID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.convService.DeleteConversation(r.Context(), convID, tenantID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Restore brings a deleted conversation back.
func (h *ConversationHandler) Restore(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := identity(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	convID, ok := pathID(r)
	if !ok {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.convService.RestoreConversation(r.Context(), convID, tenantID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

func identity(r *http.Request) (tenantID, userID uint, ok bool) {
	tenantID, okTenant := middleware.TenantIDFrom(r.Context())
	userID, okUser := middleware.UserIDFrom(r.Context())
	return tenantID, userID, okTenant && okUser
}

func pathID(r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
