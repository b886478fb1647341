package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"freewriter/internal/shared/middleware"
	"freewriter/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// multipart bodies beyond this spill to temp files
	router.MaxMultipartMemory = 8 << 20

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.AllowedOrigins),
	)

	auth := middleware.AuthMiddleware(c.JWTManager, c.Cache)

	router.GET("/health/", healthCheckHandler(c.DB, c.BookService))
	router.GET("/about/", aboutHandler(c.Config.App.Name, c.Config.App.Version))

	setupCatalogRoutes(router, c, auth)
	setupAccountRoutes(router, c, auth)
	setupNewsletterRoutes(router, c)
	setupStaffRoutes(router, c, auth)

	return router
}

// ========================================
// CATALOG ROUTES
// ========================================
func setupCatalogRoutes(router *gin.Engine, c *container.Container, auth gin.HandlerFunc) {
	router.GET("/", c.BookHandler.Home)
	router.GET("/all/", c.BookHandler.ListAll)
	router.GET("/genre/:slug/", c.BookHandler.ListByCategory)
	router.GET("/books/:flag/", c.BookHandler.ListByFlag)
	router.GET("/categories/", c.CategoryHandler.List)

	router.GET("/search/", c.BookHandler.Search)
	router.POST("/search/", c.BookHandler.Search)

	book := router.Group("/book/:slug")
	book.Use(auth)
	{
		book.GET("/", c.BookHandler.GetDetail)
		book.POST("/review/", c.ReviewHandler.AddReview)
	}

	upload := router.Group("/upload")
	upload.Use(auth)
	{
		upload.GET("/", c.BookHandler.UploadForm)
		upload.POST("/", c.BookHandler.Upload)
	}
}

// ========================================
// ACCOUNT ROUTES
// ========================================
func setupAccountRoutes(router *gin.Engine, c *container.Container, auth gin.HandlerFunc) {
	router.POST("/register/", c.UserHandler.Register)
	router.POST("/login/", c.UserHandler.Login)
	router.POST("/logout/", auth, c.UserHandler.Logout)

	profile := router.Group("/profile")
	profile.Use(auth)
	{
		profile.GET("/", c.UserHandler.GetProfile)
		profile.PUT("/", c.UserHandler.UpdateProfile)
		profile.POST("/avatar/", c.UserHandler.UploadAvatar)
	}
}

// ========================================
// NEWSLETTER ROUTES
// ========================================
func setupNewsletterRoutes(router *gin.Engine, c *container.Container) {
	newsletter := router.Group("/newsletter")
	{
		newsletter.POST("/subscribe/", c.NewsletterHandler.Subscribe)
		newsletter.POST("/unsubscribe/", c.NewsletterHandler.Unsubscribe)
	}
}

// ========================================
// STAFF ROUTES
// ========================================
func setupStaffRoutes(router *gin.Engine, c *container.Container, auth gin.HandlerFunc) {
	export := router.Group("/export")
	export.Use(auth, middleware.StaffMiddleware())
	{
		export.GET("/books/", c.BookHandler.ExportCatalog)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================

type pinger interface {
	Ping(ctx context.Context) error
}

type bookCounter interface {
	Count(ctx context.Context) (int64, error)
}

// healthCheckHandler answers 200 with the catalog size, or 503 when the database is unreachable.
func healthCheckHandler(db pinger, books bookCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := checkDatabase(ctx, db, books)
		if err != nil {
			log.Error().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"message":   "Database connection failed",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"message":     "FreeWriter is running",
			"books_count": count,
			"timestamp":   time.Now().Format(time.RFC3339),
		})
	}
}

func checkDatabase(ctx context.Context, db pinger, books bookCounter) (int64, error) {
	if err := db.Ping(ctx); err != nil {
		return 0, err
	}
	return books.Count(ctx)
}

// ========================================
// ABOUT HANDLER
// ========================================
func aboutHandler(name, version string) gin.HandlerFunc {
	about := gin.H{
		"name":        name,
		"version":     version,
		"description": "Share the books you love. Browse the catalog, read free PDFs, rate and review, and upload books for other readers.",
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": about})
	}
}
