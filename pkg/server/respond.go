package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the uniform response body. Success responses carry Data,
// error responses carry Message.
type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondSuccess(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, envelope{Status: "success", Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Status: "error", Message: message})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
