package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	campgroundHandler "campground-backend/internal/domains/campground/handler"
	"campground-backend/internal/infrastructure/database"
	"campground-backend/internal/shared/middleware"
	"campground-backend/pkg/cache"
	"campground-backend/pkg/container"
	"campground-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c.DB, c.Cache, c.Config.App.Version))
		setupCampgroundRoutes(v1, c.CampgroundHandler, c.JWTManager)
	}

	return router
}

// ========================================
// CAMPGROUND ROUTES
// ========================================
func setupCampgroundRoutes(v1 *gin.RouterGroup, h *campgroundHandler.Handler, tokens *jwt.Manager) {
	auth := middleware.AuthMiddleware(tokens)

	campgrounds := v1.Group("/campgrounds")
	{
		campgrounds.GET("", h.List)
		campgrounds.GET("/:id", h.Show)

		campgrounds.POST("", auth, h.Create)
		campgrounds.GET("/:id/edit", auth, h.Edit)
		campgrounds.PUT("/:id", auth, h.Update)
		campgrounds.DELETE("/:id", auth, h.Delete)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(db *database.PostgresDB, cache cache.Cache, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
		}

		// Check database (memory driver → không có DB)
		dbStatus := "memory"
		if db != nil {
			dbStatus = "ok"
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := db.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
