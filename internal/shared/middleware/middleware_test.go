package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freewriter/pkg/cache"
	"freewriter/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// revocationList is a cache.Cache that only answers Exists.
type revocationList struct {
	cache.Cache
	keys map[string]bool
	err  error
}

func (r *revocationList) Exists(ctx context.Context, key string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.keys[key], nil
}

func newRouter(m *jwt.Manager, revoked cache.Cache, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	handlers := append([]gin.HandlerFunc{AuthMiddleware(m, revoked)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString(ContextKeyUserID),
			"username": c.GetString(ContextKeyUsername),
		})
	})
	r.GET("/private", handlers...)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	m := jwt.NewManager("test-secret", time.Hour)
	token, claims, err := m.GenerateAccessToken("u-1", "alice", false)
	require.NoError(t, err)

	t.Run("missing header returns 401 with login url", func(t *testing.T) {
		w := do(newRouter(m, nil), "/private", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "/login/", body["login_url"])
	})

	t.Run("garbage token", func(t *testing.T) {
		w := do(newRouter(m, nil), "/private", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		w := do(newRouter(m, &revocationList{}), "/private", token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
		assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
	})

	t.Run("revoked token", func(t *testing.T) {
		revoked := &revocationList{keys: map[string]bool{cache.KeyRevokedPrefix + claims.ID: true}}
		w := do(newRouter(m, revoked), "/private", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revocation store down lets valid token through", func(t *testing.T) {
		w := do(newRouter(m, &revocationList{err: errors.New("redis down")}), "/private", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestStaffMiddleware(t *testing.T) {
	m := jwt.NewManager("test-secret", time.Hour)
	reader, _, err := m.GenerateAccessToken("u-1", "alice", false)
	require.NoError(t, err)
	staff, _, err := m.GenerateAccessToken("u-2", "admin", true)
	require.NoError(t, err)

	r := newRouter(m, nil, StaffMiddleware())

	assert.Equal(t, http.StatusForbidden, do(r, "/private", reader).Code)
	assert.Equal(t, http.StatusOK, do(r, "/private", staff).Code)
}

func TestRecoveryAndRequestID(t *testing.T) {
	r := newRouter(jwt.NewManager("s", time.Hour), nil)

	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestClientIPMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(ClientIPMiddleware())
	r.GET("/ip", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeyClientIP))
	})

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "203.0.113.9", w.Body.String())
}
