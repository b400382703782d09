// Package httpx provides the shared HTTP response envelope and the single
// error-translation boundary between domain errors and HTTP statuses.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body shape shared by every success and failure response.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`

	// List metadata, present only on paginated listings.
	Total      *int `json:"total,omitempty"`
	Page       *int `json:"page,omitempty"`
	PerPage    *int `json:"perPage,omitempty"`
	TotalPages *int `json:"totalPages,omitempty"`
}

// JSON writes an arbitrary payload with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// OKList writes a success envelope with pagination metadata.
func OKList(w http.ResponseWriter, message string, data any, total, page, perPage, totalPages int) {
	JSON(w, http.StatusOK, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Total:      &total,
		Page:       &page,
		PerPage:    &perPage,
		TotalPages: &totalPages,
	})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
