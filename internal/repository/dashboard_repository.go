package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
)

type DashboardRepository struct {
	pool *pgxpool.Pool
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetStats aggregates the admin dashboard counts
func (r *DashboardRepository) GetStats(ctx context.Context) (*models.DashboardResponse, error) {
	stats := &models.DashboardResponse{}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM units WHERE active = true`, &stats.Units},
		{`SELECT COUNT(*) FROM users WHERE active = true`, &stats.Users},
		{`SELECT COUNT(*) FROM checklists WHERE active = true`, &stats.Checklists},
	}

	for _, c := range counts {
		if err := r.pool.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE status = 'IN_PROGRESS')
		FROM executions
	`

	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Executions.Total,
		&stats.Executions.Completed,
		&stats.Executions.InProgress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count executions: %w", err)
	}

	return stats, nil
}
