package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"freewriter/internal/domains/newsletter/model"
	"freewriter/internal/shared/apperr"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Subscribe(ctx context.Context, req model.SubscribeRequest, ip, ua string) (*model.SubscribeResponse, error) {
	args := m.Called(ctx, req, ip, ua)
	if r := args.Get(0); r != nil {
		return r.(*model.SubscribeResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) Unsubscribe(ctx context.Context, req model.SubscribeRequest) error {
	return m.Called(ctx, req).Error(0)
}

func post(svc *mockService, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/newsletter/subscribe/", NewHandler(svc).Subscribe)

	req := httptest.NewRequest(http.MethodPost, "/newsletter/subscribe/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubscribe_Responses(t *testing.T) {
	tests := []struct {
		name   string
		result *model.SubscribeResponse
		err    error
		status int
		body   string
	}{
		{"subscribed", &model.SubscribeResponse{Email: "a@b.co"}, nil, http.StatusOK, `"success":true`},
		{"reactivated", &model.SubscribeResponse{Email: "a@b.co", Reactivated: true}, nil, http.StatusOK, "reactivated"},
		{"already", nil, model.NewAlreadySubscribedError(), http.StatusBadRequest, "already subscribed"},
		{"invalid", nil, apperr.Validation(model.ErrCodeInvalidEmail, "validation failed").
			WithDetails(map[string]string{"email": "Please enter a valid email address."}), http.StatusBadRequest, "valid email"},
		{"unexpected", nil, errors.New("db gone"), http.StatusInternalServerError, "try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Subscribe", mock.Anything, model.SubscribeRequest{Email: "a@b.co"}, "203.0.113.9", mock.Anything).
				Return(tt.result, tt.err)

			w := post(svc, `{"email":"a@b.co"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestSubscribe_MalformedBody(t *testing.T) {
	svc := new(mockService)
	w := post(svc, `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
