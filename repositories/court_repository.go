package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/tennis-league/models"
)

type CourtRepository interface {
	Create(ctx context.Context, court *models.Court) error
	List(ctx context.Context) ([]models.Court, error)
}

type postgresCourtRepository struct {
	db *sql.DB
}

func NewPostgresCourtRepository(db *sql.DB) CourtRepository {
	return &postgresCourtRepository{db: db}
}

func (r *postgresCourtRepository) Create(ctx context.Context, c *models.Court) error {
	query := `INSERT INTO courts (name, area, surface, lights) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := executorFromContext(ctx, r.db).QueryRowContext(ctx, query, c.Name, c.Area, c.Surface, c.Lights).Scan(&c.ID); err != nil {
		return fmt.Errorf("failed to create court: %w", err)
	}
	return nil
}

func (r *postgresCourtRepository) List(ctx context.Context) ([]models.Court, error) {
	rows, err := executorFromContext(ctx, r.db).QueryContext(ctx, `SELECT id, name, area, surface, lights FROM courts ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courts: %w", err)
	}
	defer rows.Close()

	courts := make([]models.Court, 0)
	for rows.Next() {
		var c models.Court
		if err := rows.Scan(&c.ID, &c.Name, &c.Area, &c.Surface, &c.Lights); err != nil {
			return nil, fmt.Errorf("failed to scan court: %w", err)
		}
		courts = append(courts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating court rows: %w", err)
	}
	return courts, nil
}
