package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Acode-Foundation/acode-site/internal/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionMiddleware_LiftsCookieIntoContext(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = api.SessionFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: api.SessionCookieName, Value: "sess-1"})
	SessionMiddleware()(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "sess-1", got)
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name           string
		cookie         string
		expectedStatus int
		reachedNext    bool
	}{
		{name: "with session", cookie: "sess-1", expectedStatus: http.StatusOK, reachedNext: true},
		{name: "without session", cookie: "", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			})
			chain := SessionMiddleware()(RequireSession(testLogger())(next))

			req := httptest.NewRequest(http.MethodGet, "/api/user/payments", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: api.SessionCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			chain.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.reachedNext, reached)
			if !tt.reachedNext {
				assert.Contains(t, w.Body.String(), `"redirect":"/login"`)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RateLimitMiddleware(testLogger(), 1, 1)(next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "too many requests")
}
