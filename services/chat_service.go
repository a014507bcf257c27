package services

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
)

const maxChatMessageLength = 2000

type ChatService struct {
	chats      repositories.ChatRepository
	challenges repositories.ChallengeRepository
	events     EventPublisher
	logger     *slog.Logger
}

func NewChatService(chats repositories.ChatRepository, challenges repositories.ChallengeRepository, events EventPublisher, logger *slog.Logger) *ChatService {
	if events == nil {
		events = EventPublishers(nil)
	}
	return &ChatService{chats: chats, challenges: challenges, events: events, logger: logger}
}

// List возвращает переписку вызова по возрастанию времени. Читать могут участники и администраторы.
func (s *ChatService) List(ctx context.Context, actor models.Actor, challengeID int) ([]models.ChatMessage, error) {
	if _, err := s.authorize(ctx, actor, challengeID, true); err != nil {
		return nil, err
	}
	msgs, err := s.chats.ListByChallenge(ctx, challengeID)
	if err != nil {
		return nil, handleRepositoryError(err, "list chat")
	}
	return msgs, nil
}

func (s *ChatService) Send(ctx context.Context, actor models.Actor, challengeID int, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxChatMessageLength {
		return nil, ErrChatMessageInvalid
	}
	if _, err := s.authorize(ctx, actor, challengeID, false); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{ChallengeID: challengeID, SenderMemberID: actor.MemberID, Message: text}
	if err := s.chats.Create(ctx, msg); err != nil {
		return nil, handleRepositoryError(err, "send chat message")
	}

	// доставка в websocket комнату best-effort
	err := s.events.Publish(context.WithoutCancel(ctx), models.Event{
		Type:          models.EventChatMessage,
		ChallengeID:   challengeID,
		ActorMemberID: actor.MemberID,
		Payload:       msg,
		OccurredAt:    time.Now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish chat message",
			slog.Int("challenge_id", challengeID),
			slog.Int("message_id", msg.ID),
			slog.Any("error", err),
		)
	}
	return msg, nil
}

func (s *ChatService) authorize(ctx context.Context, actor models.Actor, challengeID int, allowAdmin bool) (*models.Challenge, error) {
	c, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, handleRepositoryError(err, "load challenge")
	}
	if c.IsParticipant(actor.MemberID) || (allowAdmin && actor.IsAdmin()) {
		return c, nil
	}
	return nil, ErrNotParticipant
}
