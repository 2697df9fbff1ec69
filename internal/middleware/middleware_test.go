package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/geocurrency/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "middleware-test-secret"
	testIssuer = "geocurrency-test"
)

func newTestEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/api/v1/whoami", func(c *gin.Context) {
		_, hasDeadline := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "deadline": hasDeadline})
	})
	return r
}

func serve(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuth(t *testing.T) {
	valid, err := utils.GenerateJWT("user-42", testSecret, time.Hour, testIssuer)
	require.NoError(t, err)
	expired, err := utils.GenerateJWT("user-42", testSecret, -time.Minute, testIssuer)
	require.NoError(t, err)
	otherIssuer, err := utils.GenerateJWT("user-42", testSecret, time.Hour, "someone-else")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "anonymous", header: "", wantStatus: http.StatusOK, wantBody: `{"user":"","deadline":false}`},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: `{"user":"user-42","deadline":false}`},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: http.StatusOK, wantBody: `{"user":"user-42","deadline":false}`},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Invalid token"}`},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Token has expired"}`},
		{name: "wrong issuer", header: "Bearer " + otherIssuer, wantStatus: http.StatusUnauthorized},
	}

	r := newTestEngine(OptionalAuth(testSecret, testIssuer))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth_DisabledWithoutSecret(t *testing.T) {
	r := newTestEngine(OptionalAuth("", testIssuer))
	w := serve(r, "Bearer whatever")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"","deadline":false}`, w.Body.String())
}

func TestTimeout(t *testing.T) {
	w := serve(newTestEngine(Timeout(time.Second)), "")
	assert.JSONEq(t, `{"user":"","deadline":true}`, w.Body.String())

	w = serve(newTestEngine(Timeout(0)), "")
	assert.JSONEq(t, `{"user":"","deadline":false}`, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	l, err := NewLimiter("2-M")
	require.NoError(t, err)
	r := newTestEngine(RateLimit(l))

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	w := serve(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "").Code)
}

func TestRateLimit_PerUser(t *testing.T) {
	l, err := NewLimiter("1-M")
	require.NoError(t, err)
	r := newTestEngine(OptionalAuth(testSecret, testIssuer), RateLimit(l))
	alice, err := utils.GenerateJWT("alice", testSecret, time.Hour, testIssuer)
	require.NoError(t, err)
	bob, err := utils.GenerateJWT("bob", testSecret, time.Hour, testIssuer)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(r, "Bearer "+alice).Code)
	assert.Equal(t, http.StatusOK, serve(r, "Bearer "+bob).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "Bearer "+alice).Code)
}

func TestNewLimiter_InvalidFormat(t *testing.T) {
	_, err := NewLimiter("lots")
	assert.Error(t, err)
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	r := newTestEngine(StructuredLoggingMiddleware(slog.Default()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	given := uuid.NewString()
	req.Header.Set("X-Request-ID", given)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestConversionEventName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/api/v1/rates/convert", want: "rates_convert"},
		{path: "/api/v1/units/convert", want: "units_convert"},
		{path: "/api/v1/units/:system/formulas/calculate", want: "formulas_calculate"},
		{path: "/api/v1/units/:system/formulas/validate", want: "formulas_validate"},
		{path: "/api/v1/rates", want: ""},
		{path: "/health", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, conversionEventName(tt.path))
		})
	}
}

func TestPosthogMiddleware_UninitializedClientPassesThrough(t *testing.T) {
	r := newTestEngine(PosthogMiddleware(&utils.PosthogClientWrapper{}))
	assert.Equal(t, http.StatusOK, serve(r, "").Code)

	r = newTestEngine(PosthogMiddleware(nil))
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
}
