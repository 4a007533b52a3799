package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/cache"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/repository"
	"github.com/redis/go-redis/v9"
)

const dashboardCacheTTL = 60 * time.Second

type DashboardHandler struct {
	dashboardRepo *repository.DashboardRepository
	redisClient   *cache.Client
}

func NewDashboardHandler(dashboardRepo *repository.DashboardRepository, redisClient *cache.Client) *DashboardHandler {
	return &DashboardHandler{
		dashboardRepo: dashboardRepo,
		redisClient:   redisClient,
	}
}

// GetDashboard returns the admin aggregate counts.
// Role gating happens in the router via RequireRole.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.redisClient.GetDashboard(ctx); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("Redis error reading dashboard stats: %v", err)
	}

	stats, err := h.dashboardRepo.GetStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard stats"})
		return
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := h.redisClient.SetDashboard(ctx, string(payload), dashboardCacheTTL); err != nil {
			log.Printf("Failed to cache dashboard stats: %v", err)
		}
	}

	c.JSON(http.StatusOK, stats)
}
