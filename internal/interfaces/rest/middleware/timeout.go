package middleware

import (
	"context"
	"net/http"
	"time"
)

const timeoutBody = `{"ok":false,"code":"timeout"}`

// Timeout bounds the whole request, provider retries included. On expiry
// the caller gets 503 with the timeout code.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			timeoutHandler := http.TimeoutHandler(
				next,
				timeout,
				timeoutBody,
			)

			timeoutHandler.ServeHTTP(&timeoutBodyWriter{ResponseWriter: w}, r)
		})
	}
}

// timeoutBodyWriter labels the TimeoutHandler's own 503 body as JSON. A
// completed handler's headers are copied in before WriteHeader, so a
// Content-Type it set, or chose not to set, is left alone.
type timeoutBodyWriter struct {
	http.ResponseWriter
}

func (w *timeoutBodyWriter) WriteHeader(code int) {
	h := w.Header()
	if code == http.StatusServiceUnavailable && h.Get("Content-Type") == "" {
		h.Set("Content-Type", "application/json")
	}
	w.ResponseWriter.WriteHeader(code)
}
