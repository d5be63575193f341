package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kendallhq/managerpro/internal/guard"
)

// requestLogger tags every request with a fresh id and logs method, path,
// and duration.
func (h *Handlers) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)

		next.ServeHTTP(w, r)

		h.log.Info(r.Context(), "request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// protect gates protected views on the access guard. The check resolves
// before any protected content is written, so nothing is ever rendered
// speculatively; a denied check redirects to the login entry point.
func (h *Handlers) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.guard.Check(r.Context()) != guard.Granted {
			http.Redirect(w, r, "/auth/login?expired=1", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
