package middleware

import (
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
)

// Recover converts panics into 500 responses and reports them to Sentry
// when configured.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec != nil {
				sentry.CurrentHub().Recover(rec)
				slog.Error("panic recovered", "panic", rec, "path", r.URL.Path)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
