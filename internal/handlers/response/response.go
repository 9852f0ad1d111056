package response

import (
	"encoding/json"
	"net/http"
)

// Common client-facing messages.
const (
	MsgInternalError    = "Internal Server Error"
	MsgInvalidBody      = "Invalid request body"
	MsgInvalidChallenge = "Invalid challenge ID"
	MsgNotFound         = "Challenge not found"
)

type ErrorMessage struct {
	Success    bool   `json:"success"`
	Message    string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"-"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	err.Success = false
	WriteJSON(w, err.StatusCode, err)
}

// Error writes the {"success":false,"error":msg} envelope.
func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteError(w, ErrorMessage{Message: message, StatusCode: statusCode})
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}
