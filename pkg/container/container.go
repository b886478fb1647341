package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"freewriter/internal/config"
	infraCache "freewriter/internal/infrastructure/cache"
	"freewriter/internal/infrastructure/database"
	"freewriter/internal/infrastructure/queue"
	"freewriter/internal/infrastructure/storage"
	"freewriter/pkg/cache"
	"freewriter/pkg/jwt"

	bookHandler "freewriter/internal/domains/book/handler"
	bookRepo "freewriter/internal/domains/book/repository"
	bookService "freewriter/internal/domains/book/service"
	"freewriter/internal/domains/category"
	categoryHandler "freewriter/internal/domains/category/handler"
	categoryRepo "freewriter/internal/domains/category/repository"
	categoryService "freewriter/internal/domains/category/service"
	"freewriter/internal/domains/matching"
	matchingService "freewriter/internal/domains/matching/service"
	newsletterHandler "freewriter/internal/domains/newsletter/handler"
	newsletterRepo "freewriter/internal/domains/newsletter/repository"
	newsletterService "freewriter/internal/domains/newsletter/service"
	reviewHandler "freewriter/internal/domains/review/handler"
	reviewRepo "freewriter/internal/domains/review/repository"
	reviewService "freewriter/internal/domains/review/service"
	"freewriter/internal/domains/user"
	userHandler "freewriter/internal/domains/user/handler"
	userRepo "freewriter/internal/domains/user/repository"
	userService "freewriter/internal/domains/user/service"
)

const connectTimeout = 30 * time.Second

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the dependency graph shared by cmd/api, cmd/worker and cmd/maintenance.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Cache
	Locker     cache.Locker
	JWTManager *jwt.Manager
	Blobs      storage.BlobStore
	Images     *storage.ImageProcessor
	Queue      *queue.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo       user.Repository
	BookRepo       bookRepo.BookRepository
	CategoryRepo   category.CategoryRepository
	ReviewRepo     reviewRepo.ReviewRepository
	NewsletterRepo newsletterRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService       user.Service
	CategoryService   category.CategoryService
	BookService       *bookService.BookService
	ReviewService     reviewService.ServiceInterface
	NewsletterService newsletterService.ServiceInterface
	MatchingService   matching.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler       *userHandler.UserHandler
	BookHandler       *bookHandler.Handler
	CategoryHandler   *categoryHandler.CategoryHandler
	ReviewHandler     *reviewHandler.ReviewHandler
	NewsletterHandler *newsletterHandler.Handler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in dependency order:
// config → infrastructure → repositories → services → handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 3: REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	// ----------------------------------------
	// POSTGRES
	// ----------------------------------------
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	log.Info().Msg("Database connected")

	// ----------------------------------------
	// REDIS (cache + token revocation)
	// ----------------------------------------
	c.Redis = infraCache.NewRedisClient(c.Config.Redis)
	if err := c.Redis.Connect(ctx); err != nil {
		// the cache is optional; services log and fall through on cache errors
		log.Warn().Err(err).Msg("Redis connection failed (non-critical)")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client)
	c.Locker = infraCache.NewRedisLocker(c.Redis.Client)

	// ----------------------------------------
	// JWT, BLOB STORAGE, QUEUE
	// ----------------------------------------
	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret, c.Config.JWT.AccessTTL)
	c.Images = storage.NewImageProcessor()

	blobs, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Blobs = blobs

	c.Queue = queue.NewClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
	c.NewsletterRepo = newsletterRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo, c.Cache)

	// reviews resolve books by slug; the book detail page reads reviews back
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BookRepo)
	c.BookService = bookService.NewService(
		c.BookRepo,
		c.CategoryRepo,
		c.ReviewService,
		c.Cache,
		c.Images,
		c.Blobs,
	)

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.JWTManager,
		c.Cache,
		c.Queue,
		c.Images,
		c.Blobs,
	)
	c.NewsletterService = newsletterService.NewService(c.NewsletterRepo, c.Queue)

	c.MatchingService = matchingService.NewMatchingService(
		c.BookRepo,
		c.CategoryService,
		c.Blobs,
		c.Images,
		c.BookService,
		c.Locker,
		c.Config.Media,
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.NewsletterHandler = newsletterHandler.NewHandler(c.NewsletterService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases connections. Safe on a partially built container.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
