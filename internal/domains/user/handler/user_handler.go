package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"freewriter/internal/domains/user"
	"freewriter/internal/infrastructure/storage"
	"freewriter/internal/shared/middleware"
	"freewriter/internal/shared/response"
)

const avatarField = "avatar"

// UserHandler serves the account endpoints
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /register/
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	userDTO, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Congrats New FreeWriter member!", userDTO)
}

// Login handles POST /login/
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Logout handles POST /logout/ (behind AuthMiddleware)
func (h *UserHandler) Logout(c *gin.Context) {
	tokenID := c.GetString(middleware.ContextKeyTokenID)
	if err := h.service.Logout(c.Request.Context(), tokenID, middleware.TokenExpiry(c)); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Logged out", nil)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile handles GET /profile/
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /profile/
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Profile updated", profile)
}

// UploadAvatar handles POST /profile/avatar/ (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	header, err := c.FormFile(avatarField)
	if err != nil {
		response.BadRequest(c, "avatar file is required")
		return
	}
	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, "cannot read avatar")
		return
	}
	defer f.Close()

	// One byte over the limit is enough for the size check to reject it.
	data, err := io.ReadAll(io.LimitReader(f, storage.DefaultMaxImageSize+1))
	if err != nil {
		response.BadRequest(c, "cannot read avatar")
		return
	}

	profile, err := h.service.UploadAvatar(c.Request.Context(), userID, header.Filename, data)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Avatar updated", profile)
}
