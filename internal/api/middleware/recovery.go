package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/naolametric/naolametric/internal/api/models"
)

// Recovery returns a middleware that recovers from panics and answers 500
// with a JSON error body.
func Recovery(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					log.Error().
						Str("request_id", GetRequestID(r.Context())).
						Str("path", r.URL.Path).
						Interface("error", err).
						Str("stack", string(debug.Stack())).
						Msg("panic recovered")

					models.WriteError(w, http.StatusInternalServerError, models.ErrMsgInternal)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
