package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/fleet-tracker-go/internal/auth"
	"github.com/jengzang/fleet-tracker-go/internal/config"
	"github.com/jengzang/fleet-tracker-go/internal/metrics"
	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newTokenIssuer() *auth.TokenIssuer {
	cfg := config.Default().Auth
	cfg.AccessSecret = "test-access-secret"
	cfg.RefreshSecret = "test-refresh-secret"
	return auth.NewTokenIssuer(cfg)
}

func protectedRouter(tokens *auth.TokenIssuer) *gin.Engine {
	r := gin.New()
	r.GET("/me", Authenticate(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})
	r.GET("/admin", Authenticate(tokens), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokenIssuer()
	r := protectedRouter(tokens)

	userTok, err := tokens.IssueAccess(&models.User{ID: "u1", Email: "user@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	refreshTok, err := tokens.IssueRefresh("u1")
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "access token required", decode(t, w).Message)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token "+userTok)
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+refreshTok)
		w := serve(r, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "invalid or expired token", decode(t, w).Message)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+userTok)
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", w.Body.String())
	})

	t.Run("non-admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+userTok)
		w := serve(r, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "admin access required", decode(t, w).Message)
	})
}

func TestAuthenticateRejectsTokenSignedWithOtherKey(t *testing.T) {
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "attacker",
		"email": "attacker@example.com",
		"role":  models.RoleAdmin,
		"iss":   "fleet-tracker",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	tok, err := forged.SignedString([]byte("your-secret-key-change-in-production"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := serve(protectedRouter(newTokenIssuer()), req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "invalid or expired token", decode(t, w).Message)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	tokens := newTokenIssuer()
	tok, err := tokens.IssueAccess(&models.User{ID: "a1", Email: "admin@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "bearer "+tok)
	assert.Equal(t, http.StatusOK, serve(protectedRouter(tokens), req).Code)
}

func TestRateLimiterWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))

	now = now.Add(2 * time.Minute)
	rl.sweep()
	rl.mu.Lock()
	assert.Empty(t, rl.requests)
	rl.mu.Unlock()
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/login", RateLimit(NewRateLimiter(ctx, 1, time.Hour)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, http.StatusTooManyRequests, decode(t, w).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/x", "/missing"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"), path)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"), path)
		assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"), path)
		assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'", path)
		assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"), path)
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewWithRegistry(reg, reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/vehicles/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/vehicles/abc", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/vehicles/def", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))

	expected := `
# HELP fleet_http_requests_total HTTP requests by method, route and status code
# TYPE fleet_http_requests_total counter
fleet_http_requests_total{method="GET",route="/vehicles/:id",status="200"} 2
fleet_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fleet_http_requests_total"))
}

func TestLoggerWritesRequestFields(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Logger(zerolog.New(&buf)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/health?verbose=1", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/health?verbose=1", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
}
