package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tennis-league/models"
	"github.com/lib/pq"
)

var (
	ErrSeasonNotFound       = errors.New("season not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrEnrollmentConflict   = errors.New("member already enrolled in season")
	ErrEnrollmentRefInvalid = errors.New("enrollment season or member is invalid")
)

type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	List(ctx context.Context) ([]models.Season, error)
	SetLocked(ctx context.Context, id int, locked bool) error

	Enroll(ctx context.Context, enrollment *models.SeasonEnrollment) error
	Unenroll(ctx context.Context, seasonID, memberID int) error
	ListEnrollments(ctx context.Context, seasonID int) ([]models.SeasonEnrollment, error)
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) Create(ctx context.Context, s *models.Season) error {
	query := `
		INSERT INTO seasons (name, start_at, end_at, divisions, is_active, locked)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executorFromContext(ctx, r.db).QueryRowContext(ctx, query,
		s.Name, s.Start, s.End, pq.Array(s.Divisions), s.IsActive, s.Locked,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create season: %w", err)
	}
	return nil
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `SELECT id, name, start_at, end_at, divisions, is_active, locked FROM seasons WHERE id = $1`

	var s models.Season
	err := executorFromContext(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Start, &s.End, pq.Array(&s.Divisions), &s.IsActive, &s.Locked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to scan season: %w", err)
	}
	return &s, nil
}

func (r *postgresSeasonRepository) List(ctx context.Context) ([]models.Season, error) {
	query := `SELECT id, name, start_at, end_at, divisions, is_active, locked FROM seasons ORDER BY start_at DESC, id DESC`

	rows, err := executorFromContext(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	seasons := make([]models.Season, 0)
	for rows.Next() {
		var s models.Season
		if err := rows.Scan(&s.ID, &s.Name, &s.Start, &s.End, pq.Array(&s.Divisions), &s.IsActive, &s.Locked); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating season rows: %w", err)
	}
	return seasons, nil
}

func (r *postgresSeasonRepository) SetLocked(ctx context.Context, id int, locked bool) error {
	result, err := executorFromContext(ctx, r.db).ExecContext(ctx, `UPDATE seasons SET locked = $1 WHERE id = $2`, locked, id)
	if err != nil {
		return fmt.Errorf("failed to lock season %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) Enroll(ctx context.Context, e *models.SeasonEnrollment) error {
	query := `
		INSERT INTO season_enrollments (season_id, member_id, division)
		VALUES ($1, $2, $3)
		RETURNING joined_at`

	err := executorFromContext(ctx, r.db).QueryRowContext(ctx, query, e.SeasonID, e.MemberID, e.Division).Scan(&e.JoinedAt)
	if err != nil {
		switch code, _ := pqCode(err); code {
		case pgUniqueViolation:
			return ErrEnrollmentConflict
		case pgForeignKeyViolation:
			return ErrEnrollmentRefInvalid
		}
		return fmt.Errorf("failed to enroll member: %w", err)
	}
	return nil
}

func (r *postgresSeasonRepository) Unenroll(ctx context.Context, seasonID, memberID int) error {
	result, err := executorFromContext(ctx, r.db).ExecContext(ctx,
		`DELETE FROM season_enrollments WHERE season_id = $1 AND member_id = $2`, seasonID, memberID)
	if err != nil {
		return fmt.Errorf("failed to unenroll member: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}

func (r *postgresSeasonRepository) ListEnrollments(ctx context.Context, seasonID int) ([]models.SeasonEnrollment, error) {
	query := `
		SELECT season_id, member_id, division, joined_at
		FROM season_enrollments
		WHERE season_id = $1
		ORDER BY joined_at ASC, member_id ASC`

	rows, err := executorFromContext(ctx, r.db).QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]models.SeasonEnrollment, 0)
	for rows.Next() {
		var e models.SeasonEnrollment
		if err := rows.Scan(&e.SeasonID, &e.MemberID, &e.Division, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}
	return enrollments, nil
}
