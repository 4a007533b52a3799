package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
)

// ErrDuplicateAnswer is returned when an answer already exists for the
// (execution, question) pair. Backed by a unique index so concurrent
// submissions cannot both win.
var ErrDuplicateAnswer = errors.New("answer already recorded for this question")

type ExecutionRepository struct {
	pool *pgxpool.Pool
}

func NewExecutionRepository(pool *pgxpool.Pool) *ExecutionRepository {
	return &ExecutionRepository{pool: pool}
}

// CreateExecution opens an execution in IN_PROGRESS for a (checklist, unit, user) tuple
func (r *ExecutionRepository) CreateExecution(ctx context.Context, checklistID, unitID, userID uuid.UUID) (*models.Execution, error) {
	execution := &models.Execution{}

	query := `
		INSERT INTO executions (checklist_id, unit_id, user_id, status)
		VALUES ($1, $2, $3, 'IN_PROGRESS')
		RETURNING id, checklist_id, unit_id, user_id, status, started_at, finished_at, conformity_percentage
	`

	err := r.pool.QueryRow(ctx, query, checklistID, unitID, userID).Scan(
		&execution.ID,
		&execution.ChecklistID,
		&execution.UnitID,
		&execution.UserID,
		&execution.Status,
		&execution.StartedAt,
		&execution.FinishedAt,
		&execution.ConformityPercentage,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create execution: %w", err)
	}

	return execution, nil
}

// GetExecution retrieves an execution by id
func (r *ExecutionRepository) GetExecution(ctx context.Context, executionID uuid.UUID) (*models.Execution, error) {
	execution := &models.Execution{}

	query := `
		SELECT id, checklist_id, unit_id, user_id, status, started_at, finished_at, conformity_percentage
		FROM executions
		WHERE id = $1
	`

	err := r.pool.QueryRow(ctx, query, executionID).Scan(
		&execution.ID,
		&execution.ChecklistID,
		&execution.UnitID,
		&execution.UserID,
		&execution.Status,
		&execution.StartedAt,
		&execution.FinishedAt,
		&execution.ConformityPercentage,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}

	return execution, nil
}

// GetQuestion retrieves a question by id
func (r *ExecutionRepository) GetQuestion(ctx context.Context, questionID uuid.UUID) (*models.Question, error) {
	question := &models.Question{}

	query := `
		SELECT id, checklist_id, text, order_index, requires_photo, active, created_at, updated_at
		FROM questions
		WHERE id = $1
	`

	err := r.pool.QueryRow(ctx, query, questionID).Scan(
		&question.ID,
		&question.ChecklistID,
		&question.Text,
		&question.OrderIndex,
		&question.RequiresPhoto,
		&question.Active,
		&question.CreatedAt,
		&question.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return question, nil
}

// CreateAnswer records an answer for a question within an execution.
// Empty observation and photo are stored as NULL.
func (r *ExecutionRepository) CreateAnswer(ctx context.Context, executionID, questionID uuid.UUID, value models.AnswerValue, observation, photoURL string) (*models.Answer, error) {
	answer := &models.Answer{}

	query := `
		INSERT INTO answers (execution_id, question_id, value, observation, photo_url)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id, execution_id, question_id, value, COALESCE(observation, ''), COALESCE(photo_url, ''), created_at
	`

	err := r.pool.QueryRow(ctx, query, executionID, questionID, value, observation, photoURL).Scan(
		&answer.ID,
		&answer.ExecutionID,
		&answer.QuestionID,
		&answer.Value,
		&answer.Observation,
		&answer.PhotoURL,
		&answer.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateAnswer
		}
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}

	return answer, nil
}

// AnswerStats aggregates the scorable answers of an execution.
// NAO_SE_APLICA answers are excluded here, not in the caller.
func (r *ExecutionRepository) AnswerStats(ctx context.Context, executionID uuid.UUID) (*models.AnswerStats, error) {
	stats := &models.AnswerStats{}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE value = 'CONFORME'),
			COUNT(*) FILTER (WHERE value = 'NAO_CONFORME')
		FROM answers
		WHERE execution_id = $1 AND value != 'NAO_SE_APLICA'
	`

	err := r.pool.QueryRow(ctx, query, executionID).Scan(&stats.Conforme, &stats.NaoConforme)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate answers: %w", err)
	}

	return stats, nil
}

// CompleteExecution flips an execution to COMPLETED, recording the end
// timestamp and conformity percentage. The WHERE clause is the CAS guard: it
// only matches while the execution is still IN_PROGRESS, so a second finalize
// scans zero rows instead of overwriting the first result.
func (r *ExecutionRepository) CompleteExecution(ctx context.Context, executionID uuid.UUID, percentage float64) (*models.Execution, error) {
	execution := &models.Execution{}

	query := `
		UPDATE executions
		SET status = 'COMPLETED', finished_at = NOW(), conformity_percentage = $1
		WHERE id = $2 AND status = 'IN_PROGRESS'
		RETURNING id, checklist_id, unit_id, user_id, status, started_at, finished_at, conformity_percentage
	`

	err := r.pool.QueryRow(ctx, query, percentage, executionID).Scan(
		&execution.ID,
		&execution.ChecklistID,
		&execution.UnitID,
		&execution.UserID,
		&execution.Status,
		&execution.StartedAt,
		&execution.FinishedAt,
		&execution.ConformityPercentage,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to complete execution: %w", err)
	}

	return execution, nil
}
