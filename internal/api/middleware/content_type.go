package middleware

import (
	"net/http"

	"github.com/naolametric/naolametric/internal/api/models"
)

// ContentTypeJSON defaults the Content-Type header to UTF-8 JSON. Handlers
// may override it.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}
		next.ServeHTTP(w, r)
	})
}

// GetOnly rejects every method but GET with 405, whatever the path.
func GetOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			models.WriteError(w, http.StatusMethodNotAllowed, models.ErrMsgMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
