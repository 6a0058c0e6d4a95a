package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	MinIO      MinIOConfig
	S3         S3Config
	ImageStore ImageStoreConfig
	Campground CampgroundConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Driver   string // postgres | memory
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Pool
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	// Retry khi connect lúc startup
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type MinIOConfig struct {
	Endpoint      string // localhost:9000
	AccessKey     string // minioadmin
	SecretKey     string // minioadmin
	Bucket        string // campgrounds
	UseSSL        bool   // false for local
	PublicBaseURL string // optional CDN/proxy in front of the bucket
}

type S3Config struct {
	Bucket        string
	Region        string
	PublicBaseURL string // empty → https://<bucket>.s3.<region>.amazonaws.com
}

// ImageStoreConfig chọn backend lưu ảnh: minio | s3
type ImageStoreConfig struct {
	Driver string
}

// CampgroundConfig - tham số của lifecycle/query engine
type CampgroundConfig struct {
	PageSize      int
	MaxImageBytes int64
	RemoteTimeout time.Duration // timeout cho mỗi lần gọi image store
	RepoTimeout   time.Duration // timeout cho mỗi lần gọi repository
	CacheTTL      time.Duration
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Campground API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "campgrounds"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxConns:          getEnvInt("DB_MAX_CONNECTIONS", 25),
			MinConns:          getEnvInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
			HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),

			MaxRetries:     getEnvInt("DB_MAX_RETRIES", 5),
			RetryDelay:     getEnvDuration("DB_RETRY_DELAY", time.Second),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("MINIO_BUCKET", "campgrounds"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		},
		S3: S3Config{
			Bucket:        getEnv("S3_BUCKET_NAME", ""),
			Region:        getEnv("AWS_REGION", "us-east-1"),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		ImageStore: ImageStoreConfig{
			Driver: getEnv("IMAGE_STORE", "minio"),
		},
		Campground: CampgroundConfig{
			PageSize:      getEnvInt("CAMPGROUND_PAGE_SIZE", 8),
			MaxImageBytes: int64(getEnvInt("CAMPGROUND_MAX_IMAGE_BYTES", 5*1024*1024)),
			RemoteTimeout: getEnvDuration("CAMPGROUND_REMOTE_TIMEOUT", 15*time.Second),
			RepoTimeout:   getEnvDuration("CAMPGROUND_REPO_TIMEOUT", 5*time.Second),
			CacheTTL:      getEnvDuration("CAMPGROUND_CACHE_TTL", 10*time.Minute),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	switch c.ImageStore.Driver {
	case "minio":
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET_NAME must be set when IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q (allowed: minio, s3)", c.ImageStore.Driver)
	}

	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("DB_PORT %d is out of range", c.Database.Port)
		}
		if c.Database.MaxConns <= 0 {
			return fmt.Errorf("DB_MAX_CONNECTIONS must be positive")
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNECTIONS must be between 0 and DB_MAX_CONNECTIONS")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (allowed: postgres, memory)", c.Database.Driver)
	}

	if c.Campground.PageSize <= 0 {
		return fmt.Errorf("CAMPGROUND_PAGE_SIZE must be positive")
	}
	if c.Campground.MaxImageBytes <= 0 {
		return fmt.Errorf("CAMPGROUND_MAX_IMAGE_BYTES must be positive")
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Database.Driver == "memory" {
			return fmt.Errorf("DB_DRIVER=memory is not allowed in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
