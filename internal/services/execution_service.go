package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/repository"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/validation"
)

var (
	ErrExecutionNotFound  = errors.New("execution not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrExecutionCompleted = errors.New("execution already completed")
	ErrDuplicateAnswer    = errors.New("question already answered in this execution")
)

// ExecutionStore is the persistence surface the engine needs. Satisfied by
// repository.ExecutionRepository; tests substitute an in-memory fake.
type ExecutionStore interface {
	GetExecution(ctx context.Context, executionID uuid.UUID) (*models.Execution, error)
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*models.Question, error)
	CreateAnswer(ctx context.Context, executionID, questionID uuid.UUID, value models.AnswerValue, observation, photoURL string) (*models.Answer, error)
	AnswerStats(ctx context.Context, executionID uuid.UUID) (*models.AnswerStats, error)
	CompleteExecution(ctx context.Context, executionID uuid.UUID, percentage float64) (*models.Execution, error)
}

// PhotoStore writes and removes answer photos. Satisfied by UploadService.
type PhotoStore interface {
	StorePhoto(ctx context.Context, file *multipart.FileHeader, executionID uuid.UUID) (*StoredPhoto, error)
	Remove(ctx context.Context, storagePath string) error
}

// AnswerRequest is one answer submission for a question in an execution.
type AnswerRequest struct {
	QuestionID  uuid.UUID
	Value       models.AnswerValue
	Observation string
	Photo       *multipart.FileHeader
}

// ExecutionService is the checklist execution engine: it validates and
// records answers and finalizes executions into a conformity score.
type ExecutionService struct {
	store  ExecutionStore
	photos PhotoStore
}

func NewExecutionService(store ExecutionStore, photos PhotoStore) *ExecutionService {
	return &ExecutionService{
		store:  store,
		photos: photos,
	}
}

// AnswerQuestion validates and records one answer. The photo, when present,
// is written to storage first and removed again if the answer insert fails,
// so a failed request leaves no orphaned file behind.
func (s *ExecutionService) AnswerQuestion(ctx context.Context, executionID uuid.UUID, req AnswerRequest) (*models.Answer, error) {
	execution, err := s.store.GetExecution(ctx, executionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExecutionNotFound
		}
		return nil, fmt.Errorf("failed to load execution: %w", err)
	}

	if execution.Status == models.ExecutionCompleted {
		return nil, ErrExecutionCompleted
	}

	question, err := s.store.GetQuestion(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}

	if err := validation.ValidateAnswer(question, validation.AnswerInput{
		Value:       req.Value,
		Observation: req.Observation,
		HasPhoto:    req.Photo != nil,
	}); err != nil {
		return nil, err
	}

	var photoURL, photoPath string
	if req.Photo != nil {
		stored, err := s.photos.StorePhoto(ctx, req.Photo, executionID)
		if err != nil {
			return nil, fmt.Errorf("failed to store photo: %w", err)
		}
		photoURL = stored.PublicURL
		photoPath = stored.StoragePath
	}

	answer, err := s.store.CreateAnswer(ctx, executionID, req.QuestionID, req.Value, req.Observation, photoURL)
	if err != nil {
		if photoPath != "" {
			if cleanupErr := s.photos.Remove(ctx, photoPath); cleanupErr != nil {
				log.Printf("WARNING: failed to clean up photo %s: %v", photoPath, cleanupErr)
			}
		}
		if errors.Is(err, repository.ErrDuplicateAnswer) {
			return nil, ErrDuplicateAnswer
		}
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	return answer, nil
}

// Finalize closes an execution and returns its conformity percentage:
// conforme / (conforme + nao_conforme) * 100, with NAO_SE_APLICA answers
// excluded and 0 when nothing scorable was answered. The status flip is a
// compare-and-swap, so exactly one of two concurrent finalize calls wins.
func (s *ExecutionService) Finalize(ctx context.Context, executionID uuid.UUID) (float64, error) {
	execution, err := s.store.GetExecution(ctx, executionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrExecutionNotFound
		}
		return 0, fmt.Errorf("failed to load execution: %w", err)
	}

	if execution.Status == models.ExecutionCompleted {
		return 0, ErrExecutionCompleted
	}

	stats, err := s.store.AnswerStats(ctx, executionID)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate answers: %w", err)
	}

	percentage := ConformityPercentage(stats)

	if _, err := s.store.CompleteExecution(ctx, executionID, percentage); err != nil {
		// Zero rows means another finalize won the race after our status read.
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrExecutionCompleted
		}
		return 0, fmt.Errorf("failed to complete execution: %w", err)
	}

	log.Printf("Execution %s finalized with %.1f%% conformity", executionID, percentage)

	return percentage, nil
}

// ConformityPercentage computes the score from scorable answer counts.
func ConformityPercentage(stats *models.AnswerStats) float64 {
	total := stats.Conforme + stats.NaoConforme
	if total == 0 {
		return 0
	}
	return float64(stats.Conforme) / float64(total) * 100
}
