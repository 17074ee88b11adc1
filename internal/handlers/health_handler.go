package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/popcorn-picks/backend/internal/cache"
	"github.com/popcorn-picks/backend/internal/database"
	"github.com/popcorn-picks/backend/internal/dto"
)

type HealthHandler struct {
	cache *cache.RedisCache
}

// NewHealthHandler takes a nil cache when the deployment runs without Redis.
func NewHealthHandler(cache *cache.RedisCache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	cacheStatus := ""
	if h.cache != nil {
		cacheStatus = "ok"
		if err := h.cache.Ping(c.Context()); err != nil {
			cacheStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Cache:     cacheStatus,
	})
}
