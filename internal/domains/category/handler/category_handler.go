package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freewriter/internal/domains/category"
	"freewriter/internal/shared/response"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(svc category.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
	}
}

// ========== List: GET /categories/ ==========
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, categories, &response.Meta{Total: len(categories)})
}
