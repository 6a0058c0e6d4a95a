package container

import (
	"testing"
	"time"

	"campground-backend/internal/config"
	"campground-backend/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
)

func TestPostgresConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:            "postgres",
		Host:              "db",
		Port:              6543,
		User:              "camp",
		Password:          "pw",
		Database:          "campgrounds",
		SSLMode:           "require",
		MaxConns:          40,
		MinConns:          4,
		MaxConnLifetime:   5 * time.Minute,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: 30 * time.Second,
		MaxRetries:        3,
		RetryDelay:        250 * time.Millisecond,
		ConnectTimeout:    10 * time.Second,
	}

	got := postgresConfig(cfg)

	assert.Equal(t, &database.DBConfig{
		Host:              "db",
		Port:              6543,
		Username:          "camp",
		Password:          "pw",
		DBName:            "campgrounds",
		SSLMode:           "require",
		MaxConns:          40,
		MinConns:          4,
		MaxConnLifetime:   5 * time.Minute,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: 30 * time.Second,
		MaxRetries:        3,
		RetryDelay:        250 * time.Millisecond,
		ConnectTimeout:    10 * time.Second,
	}, got)
	assert.Equal(t, "postgresql://camp:pw@db:6543/campgrounds?sslmode=require", database.NewPostgresDB(got).ConnectionString())
}
