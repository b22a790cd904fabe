package middleware

import (
	"log/slog"
	"net/http"

	"github.com/lmateo/privmsg/internal/server/handlers"
	"github.com/lmateo/privmsg/internal/server/storage"
)

// IPGateMiddleware rejects requests from administratively blocked
// addresses. It guards the authentication surfaces; once a session is
// established the gate no longer applies.
func IPGateMiddleware(logger *slog.Logger, access storage.AccessStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := handlers.ClientIP(r)

			blocked, err := access.IsIPBlocked(r.Context(), ip)
			if err != nil {
				logger.Error("failed to check blocked IP", "error", err, "ip", ip)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if blocked {
				logger.Warn("request from blocked address rejected",
					"ip", ip,
					"method", r.Method,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"access denied"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
