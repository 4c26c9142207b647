package models

import (
	"encoding/json"
	"net/http"
)

// Error messages of the non-display endpoints.
const (
	ErrMsgCacheNotReady    = "Cache not ready"
	ErrMsgCacheError       = "Cache error"
	ErrMsgMethodNotAllowed = "Method not allowed"
	ErrMsgNotFound         = "Not found"
	ErrMsgInternal         = "Internal server error"
)

// Error messages shown on the display as a single error frame.
const (
	FrameMsgNoStop   = "No stop"
	FrameMsgBadStop  = "Bad stop"
	FrameMsgBadDir   = "Bad dir"
	FrameMsgAPIError = "API err"
)

// ErrorBody is the JSON error payload, {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteError writes an ErrorBody with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: message})
}
