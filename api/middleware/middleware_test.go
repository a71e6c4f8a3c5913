package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eterna_server/lib"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-access-secret"

type stubSessions struct {
	session *structs.AdminSession
	err     error
	calls   int
}

func (s *stubSessions) AccessTokenSecret() string { return testSecret }

func (s *stubSessions) VerifyAdmin(ctx context.Context, claims *structs.AuthClaims) (*structs.AdminSession, error) {
	s.calls++
	return s.session, s.err
}

type stubLimiter struct {
	count int
	err   error
}

func (s *stubLimiter) IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error) {
	return s.count, s.err
}

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{Environment: "development"},
		RateLimit: &structs.RateLimitConfig{
			Enabled:       true,
			AuthLimit:     5,
			AuthWindow:    time.Minute,
			AdminLimit:    100,
			AdminWindow:   time.Minute,
			GeneralLimit:  10,
			GeneralWindow: time.Minute,
		},
	}
}

func newTestMiddleware(sessions SessionVerifier, limiter RateLimiter) *Middleware {
	return NewMiddleware(testConfig(), gecho.NewDefaultLogger(), sessions, limiter)
}

func signedAccessToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uuid.New().String(),
		"email": "admin@eterna.example.com",
		"role":  "admin",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Minute).Unix(),
		"jti":   uuid.New().String(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	sessions := &stubSessions{}
	var called bool

	rec := httptest.NewRecorder()
	newTestMiddleware(sessions, nil).AdminAuthMiddleware(okHandler(&called)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/products", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, called)
	require.Zero(t, sessions.calls)
}

func TestAdminAuthRejectsNonAdminProfile(t *testing.T) {
	sessions := &stubSessions{err: lib.ErrUnauthorizedAccess}
	var called bool

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: signedAccessToken(t)})

	rec := httptest.NewRecorder()
	newTestMiddleware(sessions, nil).AdminAuthMiddleware(okHandler(&called)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, called)
	require.Equal(t, 1, sessions.calls)

	cleared := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared[c.Name] = true
		}
	}
	require.True(t, cleared[lib.AccessCookieName])
	require.True(t, cleared[lib.RefreshCookieName])
}

func TestAdminAuthAdmitsAdmin(t *testing.T) {
	session := &structs.AdminSession{UserID: uuid.New(), Email: "admin@eterna.example.com", Role: "admin"}
	sessions := &stubSessions{session: session}

	var got *structs.AdminSession
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSessionFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: signedAccessToken(t)})

	rec := httptest.NewRecorder()
	newTestMiddleware(sessions, nil).AdminAuthMiddleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, session, got)
}

func TestCSRFRejectsMismatchedHeader(t *testing.T) {
	mw := newTestMiddleware(nil, nil)

	cases := []struct {
		name   string
		cookie string
		header string
		want   int
	}{
		{"no cookie", "", "abc", http.StatusForbidden},
		{"no header", "abc", "", http.StatusForbidden},
		{"mismatch", "abc", "abd", http.StatusForbidden},
		{"match", "abc", "abc", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			req := httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(`{}`))
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: lib.CSRFCookieName, Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set(lib.CSRFHeaderName, tc.header)
			}

			rec := httptest.NewRecorder()
			mw.CSRFMiddleware()(okHandler(&called)).ServeHTTP(rec, req)
			require.Equal(t, tc.want, rec.Code)
			require.Equal(t, tc.want == http.StatusOK, called)
		})
	}
}

func TestCSRFIgnoresSafeMethods(t *testing.T) {
	var called bool
	rec := httptest.NewRecorder()
	newTestMiddleware(nil, nil).CSRFMiddleware()(okHandler(&called)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/categories", nil))

	require.True(t, called)
}

func TestRateLimitFailsOpen(t *testing.T) {
	var called bool
	rec := httptest.NewRecorder()
	newTestMiddleware(nil, &stubLimiter{err: errors.New("redis down")}).RateLimitMiddleware()(okHandler(&called)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	var called bool
	rec := httptest.NewRecorder()
	newTestMiddleware(nil, &stubLimiter{count: 6}).RateLimitMiddleware()(okHandler(&called)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	require.False(t, called)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitUnderLimitSetsHeaders(t *testing.T) {
	var called bool
	rec := httptest.NewRecorder()
	newTestMiddleware(nil, &stubLimiter{count: 3}).RateLimitMiddleware()(okHandler(&called)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))

	require.True(t, called)
	require.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "7", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestNormalizeEndpoint(t *testing.T) {
	require.Equal(t, "/products/:id", normalizeEndpoint("/products/123"))
	require.Equal(t, "/notices/:id", normalizeEndpoint("/notices/4/dismiss"))
	require.Equal(t, "/products", normalizeEndpoint("/products/"))
	require.Equal(t, "/admin/categories", normalizeEndpoint("/admin/categories"))
}

func TestHealthCheckPathsSkipRequestLogging(t *testing.T) {
	require.True(t, isHealthCheckPath("/metrics"))
	require.True(t, isHealthCheckPath("/health/database"))
	require.False(t, isHealthCheckPath("/products"))
	require.False(t, isHealthCheckPath("/healthy-living"))
}

func TestLoggerMiddlewarePassesHealthChecksThrough(t *testing.T) {
	mw := newTestMiddleware(nil, nil)
	handler := mw.SetupLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for _, path := range []string{"/health/server", "/products"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusTeapot, rec.Code, path)
	}
}
