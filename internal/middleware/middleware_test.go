package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth map[string]string

func (s stubAuth) Authenticate(_ context.Context, token string) (string, error) {
	if token == "outage" {
		return "", errors.New("redis: connection refused")
	}
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: bad token", service.ErrUnauthorized)
}

type stubAdmins map[string]string

func (s stubAdmins) IsAdmin(_ context.Context, communityID, userID string) (bool, error) {
	if communityID == "broken" {
		return false, errors.New("db down")
	}
	return s[communityID] == userID, nil
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.Use(Auth(stubAuth{"good": "u-1"}))
	r.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, CurrentUserID(c)) })

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"session store down", "Bearer outage", http.StatusInternalServerError},
		{"valid", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/me", tt.header)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, "u-1", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"msg"`)
			}
		})
	}
}

func TestCommunityAdmin(t *testing.T) {
	r := gin.New()
	r.Use(Auth(stubAuth{"ann": "u-1", "bob": "u-2"}), CommunityAdmin(stubAdmins{"c-1": "u-1"}, zap.NewNop()))
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/communities/:communityId/admins", ok)
	r.DELETE("/communities/:communityId/admins/:adminId", ok)
	r.GET("/communities/:communityId/houses", ok)

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/communities/c-1/admins", "Bearer ann").Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/communities/c-1/admins/u-3", "Bearer ann").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/communities/c-1/admins", "Bearer bob").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/communities/missing/admins", "Bearer ann").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, "/communities/broken/admins", "Bearer ann").Code)
	// 非 admins 路径不检查
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/communities/c-1/houses", "Bearer bob").Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, zap.NewNop())
	r := gin.New()
	r.POST("/auth/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	login := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, login("10.0.0.1"))
	assert.Equal(t, http.StatusOK, login("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("10.0.0.1"))
	assert.Equal(t, http.StatusOK, login("10.0.0.2"))
}

func TestRateLimiterForwardedFor(t *testing.T) {
	newEngine := func(trusted []string) *gin.Engine {
		r := gin.New()
		require.NoError(t, r.SetTrustedProxies(trusted))
		r.POST("/auth/login", NewRateLimiter(0.001, 1, zap.NewNop()).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	login := func(r *gin.Engine, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// 不信任代理时伪造的 X-Forwarded-For 共用连接地址的配额
	untrusted := newEngine(nil)
	assert.Equal(t, http.StatusOK, login(untrusted, "198.51.100.1"))
	for i := 2; i <= 20; i++ {
		assert.Equal(t, http.StatusTooManyRequests, login(untrusted, fmt.Sprintf("198.51.100.%d", i)))
	}

	// 来自可信代理时按转发的客户端地址计数
	trusted := newEngine([]string{"203.0.113.0/24"})
	assert.Equal(t, http.StatusOK, login(trusted, "198.51.100.1"))
	assert.Equal(t, http.StatusOK, login(trusted, "198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, login(trusted, "198.51.100.1"))
}

func TestLoggerRecordsErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	w := serve(r, http.MethodGet, "/ok", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	serve(r, http.MethodGet, "/fail", "")

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, "request failed", entries[1].Message)
	assert.Contains(t, entries[1].ContextMap()["errors"], "boom")
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(*gin.Context) { panic("oops") })

	w := serve(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
