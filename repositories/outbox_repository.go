package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/tennis-league/models"
)

// OutboxRepository хранит письма, которые не ушли через SMTP (или SMTP не настроен).
type OutboxRepository interface {
	Create(ctx context.Context, msg *models.OutboxMessage) error
	List(ctx context.Context, limit int) ([]models.OutboxMessage, error)
}

type postgresOutboxRepository struct {
	db *sql.DB
}

func NewPostgresOutboxRepository(db *sql.DB) OutboxRepository {
	return &postgresOutboxRepository{db: db}
}

func (r *postgresOutboxRepository) Create(ctx context.Context, m *models.OutboxMessage) error {
	query := `
		INSERT INTO notification_outbox (key, recipient, subject, body, has_calendar, error)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executorFromContext(ctx, r.db).QueryRowContext(ctx, query,
		m.Key, m.To, m.Subject, m.Body, m.HasCalendar, m.Error,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write outbox message: %w", err)
	}
	return nil
}

func (r *postgresOutboxRepository) List(ctx context.Context, limit int) ([]models.OutboxMessage, error) {
	// последние limit записей в порядке добавления
	query := `
		SELECT id, key, recipient, subject, body, has_calendar, error, created_at
		FROM (
			SELECT id, key, recipient, subject, body, has_calendar, error, created_at
			FROM notification_outbox
			ORDER BY id DESC
			LIMIT $1
		) recent
		ORDER BY id ASC`

	rows, err := executorFromContext(ctx, r.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer rows.Close()

	messages := make([]models.OutboxMessage, 0)
	for rows.Next() {
		var m models.OutboxMessage
		var errText sql.NullString
		if err := rows.Scan(&m.ID, &m.Key, &m.To, &m.Subject, &m.Body, &m.HasCalendar, &errText, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		m.Error = nullStringPtr(errText)
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox rows: %w", err)
	}
	return messages, nil
}
