// Package response provides utilities for HTTP response handling.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/naolametric/naolametric/internal/api/middleware"
	"github.com/naolametric/naolametric/internal/api/models"
	"github.com/naolametric/naolametric/internal/departures"
)

// ContentTypeJSON is the content type of every JSON response.
const ContentTypeJSON = "application/json; charset=utf-8"

// JSON writes a JSON response with the given status code.
// Includes X-Request-Id header for correlation.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, r *http.Request, status int, body string) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Frames writes a display response.
func Frames(w http.ResponseWriter, r *http.Request, status int, resp departures.Response) {
	JSON(w, r, status, resp)
}

// FrameError writes a single error frame carrying message.
func FrameError(w http.ResponseWriter, r *http.Request, status int, message string) {
	Frames(w, r, status, departures.ErrorResponse(message))
}

// Error writes a {"error": message} response.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	setRequestID(w, r)
	models.WriteError(w, status, message)
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, r, http.StatusNotFound, models.ErrMsgNotFound)
}

// MethodNotAllowed writes a 405 Method Not Allowed error response.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	Error(w, r, http.StatusMethodNotAllowed, models.ErrMsgMethodNotAllowed)
}

// ServiceUnavailable writes a 503 Service Unavailable error response.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusServiceUnavailable, message)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusInternalServerError, message)
}

func setRequestID(w http.ResponseWriter, r *http.Request) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
}
