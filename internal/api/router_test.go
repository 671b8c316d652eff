package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/config"
)

func newTestRouter(t *testing.T, rl config.RateLimitConfig, logs *bytes.Buffer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(Config{
		RateLimit:  rl,
		Logger:     zerolog.New(logs),
		JWTManager: auth.NewJWTManager("test-secret", time.Hour),
	})
}

func TestHealthz(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRouter(t, config.RateLimitConfig{}, &logs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, "/healthz", line["path"])
	assert.EqualValues(t, 200, line["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRouter(t, config.RateLimitConfig{}, &logs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRouter(t, config.RateLimitConfig{}, &logs)

	for _, path := range []string{"/v1/bookings", "/v1/items", "/v1/requests", "/v1/me"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRateLimiter(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRouter(t, config.RateLimitConfig{RPS: 0.001, Burst: 2}, &logs)

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	// Other clients keep their own budget
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitOrigins(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitOrigins(""))
}
