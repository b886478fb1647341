package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freewriter/internal/shared/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleError_AppError(t *testing.T) {
	w, body := serve(t, apperr.NotFound("BOOK001", "Book not found", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "BOOK001", body.Error.Code)
	assert.Equal(t, "Book not found", body.Error.Message)
	assert.Empty(t, body.LoginURL)
}

func TestHandleError_UnknownErrorHidesCause(t *testing.T) {
	w, body := serve(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection refused")
}

func TestHandleError_UnauthenticatedCarriesLoginURL(t *testing.T) {
	w, body := serve(t, apperr.Unauthenticated("UNAUTHENTICATED", "login required"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, LoginURL, body.LoginURL)
}

func TestHandleError_ValidationDetails(t *testing.T) {
	err := apperr.Validation("BOOK003", "validation failed").WithDetails(map[string]string{"title": "cannot be blank"})
	w, body := serve(t, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"title": "cannot be blank"}, body.Error.Details)
}
