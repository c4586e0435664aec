package web

// errors.go provides unified error response handling for the web layer.
//
// Every error leaves the server as JSON with a support code:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode)
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error is logged with request ID for correlation
//  5. Client receives message, action and code

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/BodyComp/internal/core"
	"github.com/JonMunkholm/BodyComp/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error server-side and writes the mapped
// user message.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	respondErrorJSON(w, userMsg, statusCode)
}

// writeError writes an error response for a condition detected outside a
// handler, such as a middleware rejection.
func writeError(w http.ResponseWriter, status int, message string) {
	msg := core.MapError(errors.New(message))
	if !core.IsUserFacing(errors.New(message)) {
		msg.Message = message
	}
	respondErrorJSON(w, msg, status)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
