package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freewriter/internal/domains/review/model"
	"freewriter/internal/domains/review/service"
	"freewriter/internal/shared/middleware"
	"freewriter/internal/shared/response"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// AddReview rates a book and appends a review
// POST /book/:slug/review/
func (h *ReviewHandler) AddReview(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.HandleError(c, model.NewUnauthorizedError())
		return
	}

	// Step 2: Bind request body (JSON or form)
	var req model.AddReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 3: Call service
	result, err := h.reviewService.AddReview(c.Request.Context(), userID, c.Param("slug"), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Thanks for your review!", result)
}
