package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freewriter/internal/domains/user"
	"freewriter/internal/shared/middleware"
	"freewriter/internal/shared/response"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*user.UserDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*user.LoginResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return m.Called(ctx, tokenID, expiresAt).Error(0)
}

func (m *mockService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.ProfileResponse, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.(*user.ProfileResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.ProfileResponse, error) {
	args := m.Called(ctx, userID, req)
	if r := args.Get(0); r != nil {
		return r.(*user.ProfileResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*user.ProfileResponse, error) {
	args := m.Called(ctx, userID, filename, data)
	if r := args.Get(0); r != nil {
		return r.(*user.ProfileResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) CreateSuperuser(ctx context.Context, req user.SuperuserRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

// setup wires the routes; a non-empty userID simulates AuthMiddleware.
func setup(svc *mockService, userID string, tokenExp time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc)

	fakeAuth := func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextKeyUserID, userID)
			c.Set(middleware.ContextKeyTokenID, "jti-1")
			c.Set(middleware.ContextKeyTokenExp, tokenExp)
		}
		c.Next()
	}

	r := gin.New()
	r.POST("/register/", h.Register)
	r.POST("/login/", h.Login)
	r.POST("/logout/", fakeAuth, h.Logout)
	r.GET("/profile/", fakeAuth, h.GetProfile)
	r.PUT("/profile/", fakeAuth, h.UpdateProfile)
	r.POST("/profile/avatar/", fakeAuth, h.UploadAvatar)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegister_FormPost(t *testing.T) {
	svc := new(mockService)
	want := user.RegisterRequest{Username: "alice", Email: "a@example.com", Password1: "password1", Password2: "password1"}
	svc.On("Register", mock.Anything, want).Return(&user.UserDTO{ID: uuid.New(), Username: "alice"}, nil)

	form := "username=alice&email=a@example.com&password1=password1&password2=password1"
	req := httptest.NewRequest(http.MethodPost, "/register/", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	setup(svc, "", time.Time{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, "Congrats New FreeWriter member!", body.Message)
	svc.AssertExpectations(t)
}

func TestRegister_ConflictPropagates(t *testing.T) {
	svc := new(mockService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, user.NewDuplicateUsernameError(user.ErrUsernameTaken))

	req := httptest.NewRequest(http.MethodPost, "/register/", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setup(svc, "", time.Time{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, user.ErrCodeDuplicateUsername, decode(t, w).Error.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := new(mockService)
	svc.On("Login", mock.Anything, user.LoginRequest{Username: "bob", Password: "x"}).Return(nil, user.NewInvalidCredentialsError())

	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(`{"username":"bob","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setup(svc, "", time.Time{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, response.LoginURL, body.LoginURL)
	assert.Equal(t, "Invalid Credentials", body.Error.Message)
}

func TestLogout_PassesTokenIdentity(t *testing.T) {
	svc := new(mockService)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	svc.On("Logout", mock.Anything, "jti-1", exp).Return(nil)

	w := httptest.NewRecorder()
	setup(svc, uuid.NewString(), exp).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestProfile_RequiresUser(t *testing.T) {
	svc := new(mockService)
	w := httptest.NewRecorder()
	setup(svc, "", time.Time{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
}

func TestUpdateProfile_JSON(t *testing.T) {
	svc := new(mockService)
	id := uuid.New()
	svc.On("UpdateProfile", mock.Anything, id, mock.MatchedBy(func(r user.UpdateProfileRequest) bool {
		return r.UserType != nil && *r.UserType == "writer" && r.Bio == nil
	})).Return(&user.ProfileResponse{UserType: user.UserTypeWriter}, nil)

	req := httptest.NewRequest(http.MethodPut, "/profile/", strings.NewReader(`{"user_type":"writer"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setup(svc, id.String(), time.Time{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUploadAvatar(t *testing.T) {
	id := uuid.New()

	t.Run("multipart", func(t *testing.T) {
		svc := new(mockService)
		svc.On("UploadAvatar", mock.Anything, id, "me.png", []byte("imagebytes")).
			Return(&user.ProfileResponse{AvatarURL: "http://blobs/avatars/x"}, nil)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, _ = part.Write([]byte("imagebytes"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/profile/avatar/", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		setup(svc, id.String(), time.Time{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		svc := new(mockService)
		req := httptest.NewRequest(http.MethodPost, "/profile/avatar/", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		setup(svc, id.String(), time.Time{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
