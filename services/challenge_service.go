package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
)

type Notifier interface {
	Dispatch(ctx context.Context, notices []Notice)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// EventPublishers рассылает событие всем публикаторам; ошибки не прерывают рассылку.
type EventPublishers []EventPublisher

func (ps EventPublishers) Publish(ctx context.Context, event models.Event) error {
	var firstErr error
	for _, p := range ps {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type ChallengeServiceDeps struct {
	Tx         repositories.TxManager
	Challenges repositories.ChallengeRepository
	Members    repositories.MemberRepository
	Seasons    repositories.SeasonRepository
	Notifier   Notifier
	Events     EventPublisher
	Logger     *slog.Logger
	Notices    NoticeConfig
	// AsyncSideEffects - уведомления и события выполняются в фоне после ответа.
	AsyncSideEffects bool
}

type ChallengeService struct {
	tx         repositories.TxManager
	challenges repositories.ChallengeRepository
	members    repositories.MemberRepository
	seasons    repositories.SeasonRepository
	notifier   Notifier
	events     EventPublisher
	logger     *slog.Logger
	notices    NoticeConfig
	async      bool
	now        func() time.Time
	wg         sync.WaitGroup
}

func NewChallengeService(deps ChallengeServiceDeps) *ChallengeService {
	events := deps.Events
	if events == nil {
		events = EventPublishers(nil)
	}
	return &ChallengeService{
		tx:         deps.Tx,
		challenges: deps.Challenges,
		members:    deps.Members,
		seasons:    deps.Seasons,
		notifier:   deps.Notifier,
		events:     events,
		logger:     deps.Logger,
		notices:    deps.Notices,
		async:      deps.AsyncSideEffects,
		now:        time.Now,
	}
}

// Wait дожидается фоновых побочных эффектов (для graceful shutdown).
func (s *ChallengeService) Wait() {
	s.wg.Wait()
}

type CreateChallengeInput struct {
	ChallengerMemberID int
	OpponentMemberID   int
	ProposedDate       *time.Time
	Location           *string
	Message            *string
	SeasonID           *int
	Division           *string
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, actor models.Actor, in CreateChallengeInput) (*models.Challenge, error) {
	if in.ChallengerMemberID == 0 {
		in.ChallengerMemberID = actor.MemberID
	}
	if !actor.IsAdmin() && actor.MemberID != in.ChallengerMemberID {
		return nil, ErrNotProfileOwner
	}
	if in.ChallengerMemberID == in.OpponentMemberID {
		return nil, ErrSelfChallenge
	}

	c := &models.Challenge{
		ChallengerMemberID: in.ChallengerMemberID,
		OpponentMemberID:   in.OpponentMemberID,
		Status:             models.ChallengeStatusPending,
		VerificationStatus: models.VerificationNone,
		ProposedDate:       in.ProposedDate,
		Location:           trimmedPtr(in.Location),
		Message:            trimmedPtr(in.Message),
		SeasonID:           in.SeasonID,
		Division:           trimmedPtr(in.Division),
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, id := range []int{c.ChallengerMemberID, c.OpponentMemberID} {
			if _, err := s.members.GetByID(ctx, id); err != nil {
				if errors.Is(err, repositories.ErrMemberNotFound) {
					return ErrParticipantInvalid
				}
				return handleRepositoryError(err, "load participant")
			}
		}
		if c.SeasonID != nil {
			season, err := s.seasons.GetByID(ctx, *c.SeasonID)
			if err != nil {
				if errors.Is(err, repositories.ErrSeasonNotFound) {
					return ErrSeasonInvalid
				}
				return handleRepositoryError(err, "load season")
			}
			if c.Division != nil && len(season.Divisions) > 0 && !season.HasDivision(*c.Division) {
				return ErrDivisionInvalid
			}
		}
		return handleRepositoryError(s.challenges.Create(ctx, c), "create challenge")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "challenge created",
		slog.Int("challenge_id", c.ID),
		slog.Int("challenger_id", c.ChallengerMemberID),
		slog.Int("opponent_id", c.OpponentMemberID))

	s.afterCommit(ctx, c, models.EventChallengeCreated, actor.MemberID, func(p participants) []Notice {
		return []Notice{
			s.notices.notice("challenge.created", p.opponent,
				"New challenge from "+p.challenger.Name, c, nil,
				p.challenger.Name+" has challenged you to a match.",
				s.notices.scheduleLine(c),
				derefString(c.Message)),
			s.notices.notice("challenge.confirmation", p.challenger,
				"Your challenge to "+p.opponent.Name+" was sent", c, nil,
				"We will let you know when "+p.opponent.Name+" responds."),
		}
	})
	return c, nil
}

// UpdateStatus: Pending→Accepted/Declined (соперник), Pending→Cancelled (вызывающий),
// Accepted→Completed без счета (любой участник, статистика не меняется).
func (s *ChallengeService) UpdateStatus(ctx context.Context, actor models.Actor, id int, status models.ChallengeStatus) (*models.Challenge, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var c *models.Challenge
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.loadForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !c.IsParticipant(actor.MemberID) {
			return ErrNotParticipant
		}
		if !canTransition(c, actor.MemberID, status) {
			return ErrChallengeInvalidTransition
		}
		c.Status = status
		return handleRepositoryError(s.challenges.Update(ctx, c), "update challenge status")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "challenge status changed",
		slog.Int("challenge_id", c.ID), slog.String("status", string(c.Status)), slog.Int("actor_id", actor.MemberID))

	switch status {
	case models.ChallengeStatusAccepted:
		s.afterCommit(ctx, c, models.EventChallengeAccepted, actor.MemberID, func(p participants) []Notice {
			if c.ProposedDate == nil {
				return nil
			}
			invite := s.notices.buildInvite(c, p)
			return []Notice{
				s.notices.notice("challenge.accepted", p.challenger, p.opponent.Name+" accepted your challenge", c, invite, s.notices.scheduleLine(c)),
				s.notices.notice("challenge.accepted", p.opponent, "Match confirmed with "+p.challenger.Name, c, invite, s.notices.scheduleLine(c)),
			}
		})
	case models.ChallengeStatusDeclined:
		s.afterCommit(ctx, c, models.EventChallengeDeclined, actor.MemberID, func(p participants) []Notice {
			return []Notice{s.notices.notice("challenge.declined", p.challenger, p.opponent.Name+" declined your challenge", c, nil)}
		})
	case models.ChallengeStatusCancelled:
		s.afterCommit(ctx, c, models.EventChallengeCancelled, actor.MemberID, func(p participants) []Notice {
			return []Notice{s.notices.notice("challenge.cancelled", p.opponent, p.challenger.Name+" cancelled the challenge", c, nil)}
		})
	case models.ChallengeStatusCompleted:
		s.afterCommit(ctx, c, models.EventChallengeCompleted, actor.MemberID, nil)
	}
	return c, nil
}

func canTransition(c *models.Challenge, actorID int, to models.ChallengeStatus) bool {
	switch c.Status {
	case models.ChallengeStatusPending:
		switch to {
		case models.ChallengeStatusAccepted, models.ChallengeStatusDeclined:
			return actorID == c.OpponentMemberID
		case models.ChallengeStatusCancelled:
			return actorID == c.ChallengerMemberID
		}
	case models.ChallengeStatusAccepted:
		return to == models.ChallengeStatusCompleted
	}
	return false
}

// Reschedule меняет предложенные дату и место, пока вызов ожидает ответа.
// nil location оставляет место без изменений.
func (s *ChallengeService) Reschedule(ctx context.Context, actor models.Actor, id int, proposedDate *time.Time, location *string) (*models.Challenge, error) {
	if proposedDate == nil || proposedDate.IsZero() {
		return nil, ErrProposedDateRequired
	}

	var c *models.Challenge
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.loadForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !c.IsParticipant(actor.MemberID) {
			return ErrNotParticipant
		}
		if c.Status != models.ChallengeStatusPending {
			return ErrChallengeInvalidTransition
		}
		date := *proposedDate
		c.ProposedDate = &date
		if location != nil {
			c.Location = trimmedPtr(location)
		}
		return handleRepositoryError(s.challenges.Update(ctx, c), "reschedule challenge")
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, c, models.EventRescheduled, actor.MemberID, func(p participants) []Notice {
		by := p.byID(actor.MemberID).Name
		return []Notice{
			s.notices.notice("challenge.rescheduled", p.challenger, "New time proposed by "+by, c, nil, s.notices.scheduleLine(c)),
			s.notices.notice("challenge.rescheduled", p.opponent, "New time proposed by "+by, c, nil, s.notices.scheduleLine(c)),
		}
	})
	return c, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id int) (*models.Challenge, error) {
	c, err := s.challenges.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get challenge")
	}
	return c, nil
}

// ListForMember делит вызовы игрока на входящие (он соперник) и исходящие (он вызвал).
// Смотреть списки может сам игрок или администратор.
func (s *ChallengeService) ListForMember(ctx context.Context, actor models.Actor, memberID int) (*models.MemberChallenges, error) {
	if !actor.IsAdmin() && actor.MemberID != memberID {
		return nil, ErrNotProfileOwner
	}
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, handleRepositoryError(err, "load member")
	}
	all, err := s.challenges.ListByMember(ctx, memberID)
	if err != nil {
		return nil, handleRepositoryError(err, "list member challenges")
	}

	res := &models.MemberChallenges{Incoming: []*models.Challenge{}, Outgoing: []*models.Challenge{}}
	for _, c := range all {
		if c.OpponentMemberID == memberID {
			res.Incoming = append(res.Incoming, c)
		}
		if c.ChallengerMemberID == memberID {
			res.Outgoing = append(res.Outgoing, c)
		}
	}
	return res, nil
}

// ListAdmin: pending - статус ResultPending или верификация Pending; contested - верификация Contested.
// Оспоренный результат остается в ResultPending и поэтому попадает в оба списка.
func (s *ChallengeService) ListAdmin(ctx context.Context, actor models.Actor) (*models.AdminQueue, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	all, err := s.challenges.ListForReview(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list challenges for review")
	}

	res := &models.AdminQueue{Pending: []*models.Challenge{}, Contested: []*models.Challenge{}}
	for _, c := range all {
		if c.Status == models.ChallengeStatusResultPending || c.VerificationStatus == models.VerificationPending {
			res.Pending = append(res.Pending, c)
		}
		if c.VerificationStatus == models.VerificationContested {
			res.Contested = append(res.Contested, c)
		}
	}
	return res, nil
}

// CalendarInvite возвращает ICS для назначенного матча. Доступно участникам и администраторам.
func (s *ChallengeService) CalendarInvite(ctx context.Context, actor models.Actor, id int) ([]byte, error) {
	c, err := s.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !c.IsParticipant(actor.MemberID) {
		return nil, ErrNotParticipant
	}
	if c.ProposedDate == nil {
		return nil, ErrProposedDateRequired
	}
	p, err := loadParticipants(ctx, s.members, c)
	if err != nil {
		return nil, handleRepositoryError(err, "load participants")
	}
	return s.notices.buildInvite(c, p), nil
}

func (s *ChallengeService) loadForUpdate(ctx context.Context, id int) (*models.Challenge, error) {
	c, err := s.challenges.GetForUpdate(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "load challenge")
	}
	return c, nil
}

// afterCommit публикует событие и рассылает уведомления. Ошибки только логируются:
// переход уже зафиксирован и не откатывается.
func (s *ChallengeService) afterCommit(ctx context.Context, c *models.Challenge, eventType models.EventType, actorID int, build func(p participants) []Notice) {
	snapshot := *c
	run := func(ctx context.Context) {
		event := models.Event{
			Type:          eventType,
			ChallengeID:   snapshot.ID,
			ActorMemberID: actorID,
			Payload:       &snapshot,
			OccurredAt:    s.now(),
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish challenge event",
				slog.Int("challenge_id", snapshot.ID), slog.String("event", string(eventType)), slog.Any("error", err))
		}
		if build == nil || s.notifier == nil {
			return
		}
		p, err := loadParticipants(ctx, s.members, &snapshot)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load participants for notices",
				slog.Int("challenge_id", snapshot.ID), slog.Any("error", err))
			return
		}
		s.notifier.Dispatch(ctx, build(p))
	}

	ctx = context.WithoutCancel(ctx)
	if !s.async {
		run(ctx)
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		run(ctx)
	}()
}
