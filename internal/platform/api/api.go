package api

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, ErrorResponse{Error: APIError{Code: code, Message: message, RequestID: requestID}})
}

// Convenience helpers
func BadRequest(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusBadRequest, code, message, requestID)
}

func NotFound(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusNotFound, code, message, requestID)
}

func BadGateway(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusBadGateway, code, message, requestID)
}

func RateLimited(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusTooManyRequests, code, message, requestID)
}

func Internal(w http.ResponseWriter, requestID string) {
	WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error", requestID)
}
