package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the payload inside the error envelope: a stable machine
// code plus a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every error leaves the server in.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteJSON encodes data as the JSON body of a response with the given
// status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes an error envelope carrying code and message with the
// given status.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}
