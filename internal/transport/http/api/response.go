package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes payload with the given status. Encode failures are logged
// and swallowed; the status line has already gone out.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "error", err)
	}
}

// Success writes {"success": true, "requestId": ..., <fields>...}. Handlers
// key the payload by resource name ("profile", "leaves", "balance").
func Success(w http.ResponseWriter, status int, requestID string, fields map[string]any) {
	body := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	if requestID != "" {
		body["requestId"] = requestID
	}
	WriteJSON(w, status, body)
}

// Message writes a bare success envelope with a human-readable message.
func Message(w http.ResponseWriter, status int, requestID, message string) {
	Success(w, status, requestID, map[string]any{"message": message})
}

func Fail(w http.ResponseWriter, status int, message, requestID string) {
	body := map[string]any{
		"success": false,
		"message": message,
	}
	if requestID != "" {
		body["requestId"] = requestID
	}
	WriteJSON(w, status, body)
}

// FailWithErrors writes a failure envelope carrying field-level issues.
func FailWithErrors(w http.ResponseWriter, status int, message, requestID string, errs any) {
	body := map[string]any{
		"success": false,
		"message": message,
		"errors":  errs,
	}
	if requestID != "" {
		body["requestId"] = requestID
	}
	WriteJSON(w, status, body)
}
