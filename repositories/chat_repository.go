package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tennis-league/models"
)

var ErrChatChallengeInvalid = errors.New("chat challenge is invalid")

type ChatRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListByChallenge(ctx context.Context, challengeID int) ([]models.ChatMessage, error)
}

type postgresChatRepository struct {
	db *sql.DB
}

func NewPostgresChatRepository(db *sql.DB) ChatRepository {
	return &postgresChatRepository{db: db}
}

func (r *postgresChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (challenge_id, sender_member_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executorFromContext(ctx, r.db).QueryRowContext(ctx, query,
		msg.ChallengeID, msg.SenderMemberID, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if code, _ := pqCode(err); code == pgForeignKeyViolation {
			return ErrChatChallengeInvalid
		}
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *postgresChatRepository) ListByChallenge(ctx context.Context, challengeID int) ([]models.ChatMessage, error) {
	query := `
		SELECT id, challenge_id, sender_member_id, message, created_at
		FROM chat_messages
		WHERE challenge_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := executorFromContext(ctx, r.db).QueryContext(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ChallengeID, &m.SenderMemberID, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}
	return messages, nil
}
