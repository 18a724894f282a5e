// Package httpx provides the JSON response envelope shared by every API
// handler: {"code": n, "data": ...} on success and
// {"code": n, "errors": [{"message": ...}]} on failure.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorItem is a single message inside the error envelope.
type ErrorItem struct {
	Message string `json:"message"`
}

type envelope struct {
	Code   int         `json:"code"`
	Data   any         `json:"data,omitempty"`
	Errors []ErrorItem `json:"errors,omitempty"`
}

// JSON sends a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, envelope{Code: status, Data: data})
}

// Error sends an error envelope with the given status code and messages.
func Error(w http.ResponseWriter, status int, messages ...string) {
	items := make([]ErrorItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, ErrorItem{Message: m})
	}
	write(w, status, envelope{Code: status, Errors: items})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
