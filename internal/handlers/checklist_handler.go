package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/cache"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/repository"
	"github.com/redis/go-redis/v9"
)

const catalogCacheTTL = 60 * time.Second

type ChecklistHandler struct {
	checklistRepo *repository.ChecklistRepository
	executionRepo *repository.ExecutionRepository
	redisClient   *cache.Client
}

func NewChecklistHandler(checklistRepo *repository.ChecklistRepository, executionRepo *repository.ExecutionRepository, redisClient *cache.Client) *ChecklistHandler {
	return &ChecklistHandler{
		checklistRepo: checklistRepo,
		executionRepo: executionRepo,
		redisClient:   redisClient,
	}
}

// List returns all active checklists ordered by name
func (h *ChecklistHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.redisClient.GetChecklists(ctx); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("Redis error reading checklist catalog: %v", err)
	}

	checklists, err := h.checklistRepo.ListActive(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list checklists"})
		return
	}
	if checklists == nil {
		checklists = []models.Checklist{}
	}

	if payload, err := json.Marshal(checklists); err == nil {
		if err := h.redisClient.SetChecklists(ctx, string(payload), catalogCacheTTL); err != nil {
			log.Printf("Failed to cache checklist catalog: %v", err)
		}
	}

	c.JSON(http.StatusOK, checklists)
}

// Start opens an execution for a checklist and returns its ordered questions
func (h *ChecklistHandler) Start(c *gin.Context) {
	checklistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checklist id"})
		return
	}

	ctx := c.Request.Context()

	checklist, err := h.checklistRepo.GetActiveByID(ctx, checklistID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "checklist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get checklist"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	unitID := c.MustGet("unit_id").(uuid.UUID)

	execution, err := h.executionRepo.CreateExecution(ctx, checklistID, unitID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create execution"})
		return
	}

	questions, err := h.checklistRepo.ListActiveQuestions(ctx, checklistID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list questions"})
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	if err := h.redisClient.InvalidateDashboard(ctx); err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}

	c.JSON(http.StatusOK, models.StartExecutionResponse{
		Execution: execution,
		Questions: questions,
		Checklist: checklist,
	})
}
