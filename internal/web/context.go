package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/session"
	"github.com/JonMunkholm/admindash/internal/web/middleware"
)

// sessionFor returns the request's session. The session middleware runs on
// every dashboard route, so a nil result is a wiring bug.
func sessionFor(r *http.Request) *session.Session {
	return middleware.GetSession(r.Context())
}

// requestMetadata returns the client address and agent recorded by
// TrustedRealIP.
func requestMetadata(ctx context.Context) (ip, userAgent string) {
	return core.GetIPAddressFromContext(ctx), core.GetUserAgentFromContext(ctx)
}
