package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error envelope every endpoint returns:
// a short error title, a stable machine-readable code, and a human message.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// OK sends a 200 OK response with JSON body
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 Created response with JSON body
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends an error response with the standard envelope
func Error(w http.ResponseWriter, status int, title, code, message string) {
	JSON(w, status, ErrorBody{
		Error:   title,
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(w http.ResponseWriter, code, message string) {
	Error(w, http.StatusBadRequest, "Bad request", code, message)
}

// Unauthorized sends a 401 Unauthorized error
func Unauthorized(w http.ResponseWriter, code, message string) {
	Error(w, http.StatusUnauthorized, "Authentication required", code, message)
}

// Forbidden sends a 403 Forbidden error
func Forbidden(w http.ResponseWriter, code, message string) {
	Error(w, http.StatusForbidden, "Forbidden", code, message)
}

// NotFound sends a 404 Not Found error
func NotFound(w http.ResponseWriter, code, message string) {
	Error(w, http.StatusNotFound, "Not found", code, message)
}

// TooManyRequests sends a 429 Too Many Requests error
func TooManyRequests(w http.ResponseWriter, code, message string) {
	Error(w, http.StatusTooManyRequests, "Rate limited", code, message)
}

// InternalError sends a 500 Internal Server Error
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_SERVER_ERROR", message)
}
