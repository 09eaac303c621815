package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/cafepos-api/internal/config"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	token, err := jwt.GenerateAccessToken(7, "cashier@cafe.test", "cashier", "main")
	require.NoError(t, err)
	other, err := utils.NewJWTManager("other-secret", time.Hour, time.Hour).GenerateAccessToken(7, "x@cafe.test", "admin", "main")
	require.NoError(t, err)

	r := gin.New()
	r.Use(AuthMiddleware(jwt))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":     c.MustGet(ContextUserID),
			"role":   c.MustGet(ContextRole),
			"branch": c.GetString(ContextBranch),
		})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token " + token, http.StatusUnauthorized},
		{"wrong signature", "Bearer " + other, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":7,"role":"cashier","branch":"main"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	serve := func(role enum.Role) int {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if role != "" {
				c.Set(ContextRole, role)
			}
		})
		r.GET("/void", RequireRole(enum.RoleManager, enum.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/void", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve(enum.RoleManager))
	assert.Equal(t, http.StatusOK, serve(enum.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serve(enum.RoleCashier))
	assert.Equal(t, http.StatusForbidden, serve(""))
}

type memoryKeys struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func (m *memoryKeys) id(key string, userID uint) string {
	return fmt.Sprintf("%d/%s", userID, key)
}

func (m *memoryKeys) GetByKey(_ context.Context, key string, userID uint) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[m.id(key, userID)], nil
}

func (m *memoryKeys) Create(_ context.Context, k *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[m.id(k.Key, k.UserID)] = k
	return nil
}

func (m *memoryKeys) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func TestIdempotency_ReplaysSuccessfulPosts(t *testing.T) {
	repo := &memoryKeys{keys: map[string]*entity.IdempotencyKey{}}
	calls := 0
	fail := true

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ContextUserID, uint(1)) })
	r.POST("/checkout", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		if fail {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": calls})
	})

	post := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// rejected responses are not stored
	assert.Equal(t, http.StatusBadRequest, post("k1").Code)
	fail = false

	first := post("k1")
	assert.Equal(t, http.StatusCreated, first.Code)
	second := post("k1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 2, calls)

	post("")
	post("k2")
	assert.Equal(t, 4, calls)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, CleanupInterval: time.Hour, EntryTTL: time.Minute})
	defer rl.Stop()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.Query("user") == "2" {
			c.Set(ContextUserID, uint(2))
		} else {
			c.Set(ContextUserID, uint(1))
		}
	})
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/"))
	assert.Equal(t, http.StatusOK, get("/"))
	assert.Equal(t, http.StatusTooManyRequests, get("/"))
	assert.Equal(t, http.StatusOK, get("/?user=2"))

	rl.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, http.StatusOK, get("/"))
}

func TestLoggerMiddleware_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestCORSMiddleware(t *testing.T) {
	newRouter := func(cfg config.CORSConfig) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware(&cfg))
		r.POST("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })
		return r
	}

	t.Run("preflight allows pos headers on top of configured ones", func(t *testing.T) {
		r := newRouter(config.CORSConfig{
			AllowedOrigins: []string{"https://pos.cafe.test, https://admin.cafe.test"},
			AllowedHeaders: []string{"X-Terminal"},
		})
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
		req.Header.Set("Origin", "https://admin.cafe.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "authorization,idempotency-key")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://admin.cafe.test", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		allowed := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
		assert.Contains(t, allowed, "idempotency-key")
		assert.Contains(t, allowed, "authorization")
		assert.Contains(t, allowed, "x-terminal")
	})

	t.Run("unknown origin is rejected", func(t *testing.T) {
		r := newRouter(config.CORSConfig{AllowedOrigins: []string{"https://pos.cafe.test"}})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
		req.Header.Set("Origin", "https://evil.test")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wildcard exposes replay marker without credentials", func(t *testing.T) {
		r := newRouter(config.CORSConfig{AllowedOrigins: []string{"*"}})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
		req.Header.Set("Origin", "https://kiosk.cafe.test")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
		exposed := strings.ToLower(w.Header().Get("Access-Control-Expose-Headers"))
		assert.Contains(t, exposed, strings.ToLower(ReplayedHeader))
		assert.Contains(t, exposed, "content-disposition")
	})
}
