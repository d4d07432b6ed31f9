package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/admindash/internal/core"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		wantAddr   string
		wantCtxIP  string
	}{
		{
			name:       "untrusted client keeps socket address",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "203.0.113.9:5000",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4"},
			wantAddr:   "203.0.113.9:5000",
			wantCtxIP:  "203.0.113.9",
		},
		{
			name:       "trusted proxy with X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:5000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			wantAddr:   "198.51.100.7",
			wantCtxIP:  "198.51.100.7",
		},
		{
			name:       "trusted bare IP uses first forwarded hop",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:9000",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.8, 10.0.0.1"},
			wantAddr:   "198.51.100.8",
			wantCtxIP:  "198.51.100.8",
		},
		{
			name:       "garbage header is ignored",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:9000",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			wantAddr:   "127.0.0.1:9000",
			wantCtxIP:  "127.0.0.1",
		},
		{
			name:       "invalid CIDR entries are skipped",
			trusted:    []string{"bogus", ""},
			remoteAddr: "127.0.0.1:9000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			wantAddr:   "127.0.0.1:9000",
			wantCtxIP:  "127.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAddr, gotIP, gotUA string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAddr = r.RemoteAddr
				gotIP = core.GetIPAddressFromContext(r.Context())
				gotUA = core.GetUserAgentFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("User-Agent", "test-agent")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantAddr, gotAddr)
			assert.Equal(t, tt.wantCtxIP, gotIP)
			assert.Equal(t, "test-agent", gotUA)
		})
	}
}

func TestLoggerCapturesStatus(t *testing.T) {
	var seen int
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		if rw, ok := w.(*responseWriter); ok {
			seen = rw.status
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, http.StatusTeapot, seen)
}
