package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/cache"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/services"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/validation"
	"github.com/redis/go-redis/v9"
)

type ExecutionHandler struct {
	executionService *services.ExecutionService
	redisClient      *cache.Client
	maxUploadSize    int64
}

func NewExecutionHandler(executionService *services.ExecutionService, redisClient *cache.Client, maxUploadSize int64) *ExecutionHandler {
	return &ExecutionHandler{
		executionService: executionService,
		redisClient:      redisClient,
		maxUploadSize:    maxUploadSize,
	}
}

// Answer handles one multipart answer submission
// POST /executions/:id/answer (questionId, value, observation, photo?)
func (h *ExecutionHandler) Answer(c *gin.Context) {
	executionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	if err := c.Request.ParseMultipartForm(h.maxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse multipart form"})
		return
	}

	questionID, err := uuid.Parse(c.PostForm("questionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	req := services.AnswerRequest{
		QuestionID:  questionID,
		Value:       models.AnswerValue(c.PostForm("value")),
		Observation: c.PostForm("observation"),
	}

	if photo, err := c.FormFile("photo"); err == nil {
		if photo.Size > h.maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds upload size limit"})
			return
		}
		req.Photo = photo
	}

	answer, err := h.executionService.AnswerQuestion(c.Request.Context(), executionID, req)
	if err != nil {
		h.respondExecutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AnswerResponse{Answer: answer})
}

// Finalize closes an execution and returns the conformity percentage
// POST /executions/:id/finalize
func (h *ExecutionHandler) Finalize(c *gin.Context) {
	executionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	percentage, err := h.executionService.Finalize(c.Request.Context(), executionID)
	if err != nil {
		h.respondExecutionError(c, err)
		return
	}

	if err := h.redisClient.InvalidateDashboard(c.Request.Context()); err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}

	c.JSON(http.StatusOK, models.FinalizeResponse{ConformityPercentage: percentage})
}

// respondExecutionError maps engine errors onto the HTTP taxonomy
func (h *ExecutionHandler) respondExecutionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalidValue),
		errors.Is(err, validation.ErrObservationRequired),
		errors.Is(err, validation.ErrPhotoRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrExecutionNotFound),
		errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrExecutionCompleted),
		errors.Is(err, services.ErrDuplicateAnswer):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		log.Printf("Execution handler error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
