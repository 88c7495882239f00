package handler

import (
	"encoding/json"
	"net/http"

	"toppings-pos/internal/model"
	"toppings-pos/internal/requestid"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies read by the handlers.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an {"error": ...} response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger zerolog.Logger) {
	logger.Warn().
		Str("error", message).
		Int("status", status).
		Str("request_id", requestid.FromContext(r.Context())).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeMessage writes a {"message": ...} response with the given status code.
func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string, logger zerolog.Logger) {
	logger.Warn().
		Str("message", message).
		Int("status", status).
		Str("request_id", requestid.FromContext(r.Context())).
		Msg("handler error")
	writeJSON(w, status, model.MessageResponse{Message: message})
}
