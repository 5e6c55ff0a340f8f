// Package httputil provides HTTP response helpers and middleware shared by
// all API modules.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// envelope is the uniform response wrapper. Every endpoint answers with
// {"success": true, ...} or {"success": false, "message": ...}.
type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes {"success": true, "data": ...}.
func Success(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// SuccessMessage writes {"success": true, "message": ..., "data": ...}.
// Data may be nil for message-only responses.
func SuccessMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// SuccessCount writes {"success": true, "count": N, "data": ...}.
func SuccessCount(w http.ResponseWriter, status int, count int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Count: &count, Data: data})
}

// Paginated writes {"success": true, "data": ..., "pagination": ...}.
func Paginated(w http.ResponseWriter, status int, data, pagination interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data, Pagination: pagination})
}

// Error writes {"success": false, "message": ...}.
func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Message: message})
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// JSON writes a raw JSON response without the envelope. Used by
// infrastructure endpoints such as /version.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// ValidationError writes a 400 with per-field details when err is
// validator.ValidationErrors, otherwise with err.Error() as the detail.
func ValidationError(w http.ResponseWriter, err error) {
	var details interface{}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		fieldErrors := make([]map[string]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			fieldErrors = append(fieldErrors, map[string]string{
				"field":   e.Field(),
				"message": e.Tag(),
			})
		}
		details = fieldErrors
	} else {
		details = err.Error()
	}

	writeJSON(w, http.StatusBadRequest, envelope{
		Message: "validation error",
		Details: details,
	})
}
