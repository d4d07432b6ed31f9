package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/admindash/internal/config"
	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/session"
)

type sessionKey struct{}

// Session resolves the dashboard session from its cookie, creating a new
// one when the cookie is missing, malformed or expired. The session is
// stored in the request context together with its id for logging.
func Session(manager *session.Manager, cfg config.SessionConfig, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				id = c.Value
			}

			s, created := manager.GetOrCreate(id)
			if created {
				if id != "" {
					slog.Debug("session: replaced stale cookie", "path", r.URL.Path)
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    s.ID(),
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, s)
			ctx = core.ContextWithSessionID(ctx, s.ID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the session attached by Session, or nil.
func GetSession(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}
