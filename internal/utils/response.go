package utils

import (
	"encoding/json"
	"net/http"
)

type Payload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"` // machine-readable code on failures
	Data    any    `json:"data,omitempty"`
}

// JSONResponse sends a JSON response with given status and payload
func JSONResponse(w http.ResponseWriter, status int, payload Payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// JSONError sends a failed Payload carrying an error code.
func JSONError(w http.ResponseWriter, status int, code, message string) {
	JSONResponse(w, status, Payload{
		Success: false,
		Message: message,
		Error:   code,
	})
}
