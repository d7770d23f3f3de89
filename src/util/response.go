package util

import (
	"encoding/json"
	"errors"
	"fintrack-server/src/logging"
	"net/http"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: status < 400, Message: message, Data: data})
}

// WriteError renders err as an envelope. Internal errors are logged with
// their cause and reported with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed",
			logging.FieldMethod, r.Method,
			logging.FieldPath, r.URL.Path,
			logging.FieldError, err,
		)
	}

	var details any
	var appErr *AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		details = appErr.Details
	}
	WriteJSON(w, status, PublicMessage(err), details)
}
