package httputil

import (
	"encoding/json"
	"net/http"
)

// The API uses exactly two error shapes:
//
//	{"error": "message"}            missing objects, auth, internal failures
//	{"errors": {"field": "message"}} validation failures, field-keyed
//
// Nothing else reaches the client.

// ErrorResponse is the single-message error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse is the field-keyed validation error envelope.
type ValidationResponse struct {
	Errors map[string]string `json:"errors"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent, nothing left to do.
			return
		}
	}
}

// WriteError writes the single-message envelope with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteValidationErrors writes a 400 with the field-keyed envelope.
func WriteValidationErrors(w http.ResponseWriter, errors map[string]string) {
	WriteJSON(w, http.StatusBadRequest, ValidationResponse{Errors: errors})
}

// WriteBadRequest writes a 400 with a single message.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteNotFound writes a 404 with the generic missing-object message.
func WriteNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, "The requested object does not exist.")
}

// WriteConflict writes a 409.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// WriteInternalError writes a 500.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
