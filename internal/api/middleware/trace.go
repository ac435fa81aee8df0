package middleware

import (
	"net/http"

	"github.com/filedepot/filedepot-api/internal/api/shared"
)

// Trace attaches a trace ID to every request context so error responses
// and log lines can be correlated.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
