package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freewriter/internal/domains/newsletter/model"
	"freewriter/internal/domains/newsletter/service"
	"freewriter/internal/shared/apperr"
	"freewriter/internal/shared/utils"
)

// Handler answers with the flat {success, message} body newsletter widgets expect.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Subscribe - POST /newsletter/subscribe/
func (h *Handler) Subscribe(c *gin.Context) {
	var req model.SubscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data."})
		return
	}

	resp, err := h.service.Subscribe(c.Request.Context(), req, utils.ExtractClientIP(c), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Successfully subscribed to our newsletter!"
	if resp.Reactivated {
		message = "Welcome back! Your newsletter subscription has been reactivated."
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// Unsubscribe - POST /newsletter/unsubscribe/
func (h *Handler) Unsubscribe(c *gin.Context) {
	var req model.SubscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data."})
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have been unsubscribed."})
}

func respondError(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "An error occurred. Please try again later."})
		return
	}

	message := appErr.Message
	if fields, ok := appErr.Details.(map[string]string); ok {
		if m, ok := fields["email"]; ok {
			message = m
		}
	}
	c.JSON(appErr.Kind.HTTPStatus(), gin.H{"success": false, "message": message})
}
