package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
)

type ChecklistRepository struct {
	pool *pgxpool.Pool
}

func NewChecklistRepository(pool *pgxpool.Pool) *ChecklistRepository {
	return &ChecklistRepository{pool: pool}
}

// ListActive retrieves all active checklists ordered by name
func (r *ChecklistRepository) ListActive(ctx context.Context) ([]models.Checklist, error) {
	query := `
		SELECT id, name, description, active, created_at, updated_at
		FROM checklists
		WHERE active = true
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	defer rows.Close()

	var checklists []models.Checklist
	for rows.Next() {
		var c models.Checklist
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan checklist: %w", err)
		}
		checklists = append(checklists, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checklists: %w", err)
	}

	return checklists, nil
}

// GetActiveByID retrieves an active checklist by id
func (r *ChecklistRepository) GetActiveByID(ctx context.Context, checklistID uuid.UUID) (*models.Checklist, error) {
	checklist := &models.Checklist{}

	query := `
		SELECT id, name, description, active, created_at, updated_at
		FROM checklists
		WHERE id = $1 AND active = true
	`

	err := r.pool.QueryRow(ctx, query, checklistID).Scan(
		&checklist.ID,
		&checklist.Name,
		&checklist.Description,
		&checklist.Active,
		&checklist.CreatedAt,
		&checklist.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	return checklist, nil
}

// ListActiveQuestions retrieves a checklist's active questions ordered by index
func (r *ChecklistRepository) ListActiveQuestions(ctx context.Context, checklistID uuid.UUID) ([]models.Question, error) {
	query := `
		SELECT id, checklist_id, text, order_index, requires_photo, active, created_at, updated_at
		FROM questions
		WHERE checklist_id = $1 AND active = true
		ORDER BY order_index
	`

	rows, err := r.pool.Query(ctx, query, checklistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.ChecklistID, &q.Text, &q.OrderIndex, &q.RequiresPhoto, &q.Active, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}

	return questions, nil
}
