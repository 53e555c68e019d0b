// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/multisolucioneslv/erp-assistant/internal/services/assistant"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the assistant error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch assistant.TypeOf(err) {
	case assistant.ErrTypeValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case assistant.ErrTypeNotFound:
		status = http.StatusNotFound
		message = "Not found"
	case assistant.ErrTypeForbidden:
		status = http.StatusForbidden
		message = err.Error()
	case assistant.ErrTypeUpstream:
		status = http.StatusBadGateway
		message = "AI provider is unavailable"
	case assistant.ErrTypeAccounting:
		status = http.StatusInternalServerError
		message = "Usage accounting failed"
	}
	writeError(w, message, status)
}
