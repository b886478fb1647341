package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDB struct{ err error }

func (s stubDB) Ping(ctx context.Context) error { return s.err }

type stubBooks struct {
	count int64
	err   error
}

func (s stubBooks) Count(ctx context.Context) (int64, error) { return s.count, s.err }

func serve(t *testing.T, h gin.HandlerFunc) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		code, body := serve(t, healthCheckHandler(stubDB{}, stubBooks{count: 7}))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "FreeWriter is running", body["message"])
		assert.Equal(t, float64(7), body["books_count"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("database down", func(t *testing.T) {
		code, body := serve(t, healthCheckHandler(stubDB{err: errors.New("refused")}, stubBooks{}))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", body["status"])
		assert.NotContains(t, body, "books_count")
	})

	t.Run("count fails", func(t *testing.T) {
		code, _ := serve(t, healthCheckHandler(stubDB{}, stubBooks{err: errors.New("relation missing")}))
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})
}

func TestAbout(t *testing.T) {
	code, body := serve(t, aboutHandler("FreeWriter", "1.2.0"))

	assert.Equal(t, http.StatusOK, code)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "FreeWriter", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
}
