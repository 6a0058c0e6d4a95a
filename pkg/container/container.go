package container

import (
	"context"
	"fmt"
	"time"

	"campground-backend/internal/config"
	campgroundHandler "campground-backend/internal/domains/campground/handler"
	campgroundRepo "campground-backend/internal/domains/campground/repository"
	campgroundService "campground-backend/internal/domains/campground/service"
	commentRepo "campground-backend/internal/domains/comment/repository"
	infraCache "campground-backend/internal/infrastructure/cache"
	"campground-backend/internal/infrastructure/database"
	"campground-backend/internal/infrastructure/queue"
	"campground-backend/internal/infrastructure/storage"
	"campground-backend/pkg/cache"
	"campground-backend/pkg/jwt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của API process.
// Thứ tự khởi tạo: Config → Infrastructure → Repositories → Services → Handlers
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB // nil khi DB_DRIVER=memory
	Redis       *infraCache.RedisCache
	Cache       cache.Cache // nil khi Redis không kết nối được
	JWTManager  *jwt.Manager
	ImageStore  storage.Store
	AsynqClient *asynq.Client

	// Repositories
	CampgroundRepo campgroundRepo.CampgroundRepository
	CommentRepo    commentRepo.CommentRepository

	// Services
	LifecycleService *campgroundService.LifecycleService
	QueryService     *campgroundService.QueryService

	// Handlers
	CampgroundHandler *campgroundHandler.Handler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
func NewContainer(ctx context.Context) (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{}

	// STEP 1: CONFIG
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("✅ Config loaded")

	// STEP 2: DATABASE
	if err := c.initDatabase(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 3: CACHE (không critical)
	c.initCache(ctx)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// STEP 4: IMAGE STORE + QUEUE
	if err := c.initImageStore(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// STEP 5: REPOSITORIES → SERVICES → HANDLERS
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase(ctx context.Context) error {
	if c.Config.Database.Driver == "memory" {
		log.Warn().Msg("⚠️  DB_DRIVER=memory, data is lost on restart")
		return nil
	}

	log.Info().Msg("🗄️  Connecting to PostgreSQL...")

	db := database.NewPostgresDB(postgresConfig(c.Config.Database))

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := database.EnsureSchema(connectCtx, db.Pool); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Info().Msg("✅ Database connected")
	return nil
}

// postgresConfig map config.DatabaseConfig (đã validate) sang DBConfig của pgxpool
func postgresConfig(cfg config.DatabaseConfig) *database.DBConfig {
	return &database.DBConfig{
		Host:              cfg.Host,
		Port:              cfg.Port,
		Username:          cfg.User,
		Password:          cfg.Password,
		DBName:            cfg.Database,
		SSLMode:           cfg.SSLMode,
		MaxConns:          int32(cfg.MaxConns),
		MinConns:          int32(cfg.MinConns),
		MaxConnLifetime:   cfg.MaxConnLifetime,
		MaxConnIdleTime:   cfg.MaxConnIdleTime,
		HealthCheckPeriod: cfg.HealthCheckPeriod,
		MaxRetries:        cfg.MaxRetries,
		RetryDelay:        cfg.RetryDelay,
		ConnectTimeout:    cfg.ConnectTimeout,
	}
}

func (c *Container) initCache(ctx context.Context) {
	log.Info().Msg("🔴 Connecting to Redis...")

	c.Redis = infraCache.NewRedisCache(c.Config.Redis)

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.Redis.Connect(connectCtx); err != nil {
		// Redis failure không critical - chạy không cache
		log.Warn().Err(err).Msg("⚠️  Redis connection failed (non-critical), caching disabled")
		return
	}
	c.Cache = c.Redis
}

func (c *Container) initImageStore(ctx context.Context) error {
	store, err := NewImageStore(ctx, c.Config)
	if err != nil {
		return err
	}
	c.ImageStore = store

	log.Info().Str("driver", c.Config.ImageStore.Driver).Msg("✅ Image store ready")
	return nil
}

// NewImageStore chọn backend theo IMAGE_STORE (minio | s3). Worker cũng dùng hàm này.
func NewImageStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	storeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.ImageStore.Driver {
	case "s3":
		store, err := storage.NewS3Storage(storeCtx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 storage: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewMinIOStorage(storeCtx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio storage: %w", err)
		}
		return store, nil
	}
}

func (c *Container) initRepositories() {
	if c.DB == nil {
		c.CampgroundRepo = campgroundRepo.NewMemoryRepository()
		c.CommentRepo = commentRepo.NewMemoryRepository()
		return
	}

	c.CampgroundRepo = campgroundRepo.NewPostgresRepository(c.DB.Pool)
	c.CommentRepo = commentRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	campCfg := c.Config.Campground
	processor := storage.NewImageProcessor(campCfg.MaxImageBytes)
	jobs := queue.NewImageJobQueue(c.AsynqClient)

	c.LifecycleService = campgroundService.NewLifecycleService(
		c.CampgroundRepo,
		c.ImageStore,
		processor,
		c.Cache,
		jobs,
		campCfg,
	)
	c.QueryService = campgroundService.NewQueryService(
		c.CampgroundRepo,
		c.CommentRepo,
		c.Cache,
		campCfg,
	)
}

func (c *Container) initHandlers() {
	c.CampgroundHandler = campgroundHandler.NewHandler(
		c.LifecycleService,
		c.QueryService,
		c.Config.Campground.MaxImageBytes,
	)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close asynq client")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}
