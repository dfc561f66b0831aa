package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitcoach-ai/meal-coach/internal/llm"
	"github.com/fitcoach-ai/meal-coach/internal/service"
	"github.com/fitcoach-ai/meal-coach/internal/store"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps service-layer error kinds to HTTP responses. Parse
// failures carry the raw model output so callers can inspect what came back.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	var parseErr *llm.ParseError
	if errors.As(err, &parseErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": parseErr.Reason,
			"raw":   parseErr.Raw,
		})
		return
	}
	var gwErr *llm.GatewayError
	if errors.As(err, &gwErr) {
		writeError(w, http.StatusInternalServerError, "model request failed")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
