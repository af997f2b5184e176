package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIVersion is the version string stamped into every envelope meta block.
const APIVersion = "v1"

// Meta accompanies every versioned API response.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// APIError is the machine-readable error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every versioned API response.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    Meta      `json:"meta"`
}

// WriteJSON writes a bare JSON response and returns any encoding error.
// Used by the legacy listing endpoint, which predates the envelope.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, statusCode int, data any) error {
	return WriteJSON(w, statusCode, Envelope{
		Success: true,
		Data:    data,
		Meta:    Meta{Timestamp: time.Now().UTC(), Version: APIVersion},
	})
}

// WriteError writes an error envelope with a machine-readable code and a
// human-readable message.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) error {
	return WriteJSON(w, statusCode, Envelope{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    Meta{Timestamp: time.Now().UTC(), Version: APIVersion},
	})
}
