package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"freewriter/internal/domains/book/model"
	"freewriter/internal/domains/book/service"
	"freewriter/internal/infrastructure/storage"
	"freewriter/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler - HTTP Handler for the catalog
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Home - GET /
func (h *Handler) Home(c *gin.Context) {
	home, err := h.service.Home(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, home)
}

// ListAll - GET /all/
func (h *Handler) ListAll(c *gin.Context) {
	books, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Total: len(books)})
}

// ListByCategory - GET /genre/:slug/
func (h *Handler) ListByCategory(c *gin.Context) {
	result, err := h.service.ListByCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, result, &response.Meta{Total: len(result.Books)})
}

// ListByFlag - GET /books/:flag/ (recommended, fiction, business)
func (h *Handler) ListByFlag(c *gin.Context) {
	books, err := h.service.ListByFlag(c.Request.Context(), c.Param("flag"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Total: len(books)})
}

// GetDetail - GET /book/:slug/ (login required)
func (h *Handler) GetDetail(c *gin.Context) {
	detail, err := h.service.GetDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Search - GET|POST /search/
// Accepts q (or name_of_book), category and author from the query string, a form or JSON.
func (h *Handler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid search parameters")
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, result, &response.Meta{Total: result.Total})
}

// UploadForm - GET /upload/
func (h *Handler) UploadForm(c *gin.Context) {
	form, err := h.service.UploadForm(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, form)
}

// Upload - POST /upload/ (multipart/form-data)
// Fields: title, author, summary, category (repeated), cover_image (file), pdf (file)
func (h *Handler) Upload(c *gin.Context) {
	// 1. Bind text fields
	var req model.UploadBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid upload form")
		return
	}

	// 2. Optional files
	var err error
	if req.Cover, err = readFormFile(c, "cover_image", storage.DefaultMaxImageSize); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.PDF, err = readFormFile(c, "pdf", storage.DefaultMaxPDFSize); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// 3. Create
	book, err := h.service.Upload(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	log.Info().
		Str("user_id", c.GetString("user_id")).
		Str("slug", book.Slug).
		Msg("[BookHandler] book uploaded")

	response.SuccessWithMessage(c, http.StatusCreated, "Book uploaded successfully!", book)
}

// ExportCatalog - GET /export/books/ (staff only)
func (h *Handler) ExportCatalog(c *gin.Context) {
	data, err := h.service.ExportCatalog(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("books_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// readFormFile returns nil when the field is absent. At most maxSize+1 bytes are read so
// oversize files still fail the service's size check.
func readFormFile(c *gin.Context, field string, maxSize int64) (*model.FileUpload, error) {
	header, err := c.FormFile(field)
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", field, err)
	}
	return readHeader(header, maxSize)
}

func readHeader(header *multipart.FileHeader, maxSize int64) (*model.FileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", header.Filename, err)
	}
	return &model.FileUpload{Filename: header.Filename, Data: data}, nil
}
