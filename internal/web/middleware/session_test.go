package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/admindash/internal/config"
	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/logging"
	"github.com/JonMunkholm/admindash/internal/session"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(session.ProviderFunc(func(def core.TableDefinition) core.RecordSource {
		return core.SourceFunc(func(context.Context) ([]core.Record, error) { return nil, nil })
	}), session.Options{Logger: logging.Discard()})
	t.Cleanup(m.Close)
	return m
}

func TestSession(t *testing.T) {
	m := newManager(t)
	cfg := config.SessionConfig{CookieName: "sid"}

	var got *session.Session
	var gotID string
	h := Session(m, cfg, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSession(r.Context())
		gotID = core.GetSessionIDFromContext(r.Context())
	}))

	t.Run("new visitor gets a cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotNil(t, got)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sid", cookies[0].Name)
		assert.Equal(t, got.ID(), cookies[0].Value)
		assert.True(t, cookies[0].Secure)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, got.ID(), gotID)
	})

	t.Run("known cookie is reused", func(t *testing.T) {
		first := got
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: first.ID()})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Same(t, first, got)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("stale cookie is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "no-such-session"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.NotNil(t, got)
		assert.NotEqual(t, "no-such-session", got.ID())
		require.Len(t, rec.Result().Cookies(), 1)
	})

	assert.Nil(t, GetSession(context.Background()))
}
