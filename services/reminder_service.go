package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
	"golang.org/x/sync/semaphore"
)

const (
	reminder24hLead = 24 * time.Hour
	reminder1hLead  = time.Hour
)

type reminderKind struct {
	lead    time.Duration
	label   string
	key     string
	isSent  func(c *models.Challenge) bool
	markSet func(c *models.Challenge)
}

var reminderKinds = []reminderKind{
	{
		lead: reminder24hLead, label: "tomorrow", key: "challenge.reminder_24h",
		isSent:  func(c *models.Challenge) bool { return c.Reminder24Sent },
		markSet: func(c *models.Challenge) { c.Reminder24Sent = true },
	},
	{
		lead: reminder1hLead, label: "in one hour", key: "challenge.reminder_1h",
		isSent:  func(c *models.Challenge) bool { return c.Reminder1Sent },
		markSet: func(c *models.Challenge) { c.Reminder1Sent = true },
	},
}

// ReminderService рассылает напоминания за 24 часа и за час до принятых матчей.
// Напоминание срабатывает, если |now - (start - lead)| <= tolerance. Флаг ставится
// под блокировкой строки до отправки, так что каждое напоминание уходит не больше одного раза.
// tolerance должен быть не меньше периода сканирования, иначе окно можно пропустить.
type ReminderService struct {
	tx         repositories.TxManager
	challenges repositories.ChallengeRepository
	members    repositories.MemberRepository
	notifier   Notifier
	events     EventPublisher
	notices    NoticeConfig
	tolerance  time.Duration
	logger     *slog.Logger
	scanning   *semaphore.Weighted
}

func NewReminderService(
	tx repositories.TxManager,
	challenges repositories.ChallengeRepository,
	members repositories.MemberRepository,
	notifier Notifier,
	events EventPublisher,
	notices NoticeConfig,
	tolerance time.Duration,
	logger *slog.Logger,
) *ReminderService {
	if events == nil {
		events = EventPublishers(nil)
	}
	return &ReminderService{
		tx:         tx,
		challenges: challenges,
		members:    members,
		notifier:   notifier,
		events:     events,
		notices:    notices,
		tolerance:  tolerance,
		logger:     logger,
		scanning:   semaphore.NewWeighted(1),
	}
}

var ErrScanInProgress = errors.New("reminder scan already in progress")

// Run сканирует каждые interval до отмены ctx. Проход выполняется в самом цикле,
// поэтому после возврата Run ни один проход уже не идет.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("reminder scheduler started", slog.Duration("interval", interval), slog.Duration("tolerance", s.tolerance))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case now := <-ticker.C:
			sent, err := s.Scan(ctx, now)
			switch {
			case errors.Is(err, ErrScanInProgress):
				s.logger.Warn("reminder scan skipped: another scan is running")
			case errors.Is(err, context.Canceled):
			case err != nil:
				s.logger.Error("reminder scan failed", slog.Any("error", err))
			case sent > 0:
				s.logger.Info("reminder scan finished", slog.Int("sent", sent))
			}
		}
	}
}

// Scan выполняет один проход и возвращает число отправленных напоминаний.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) (int, error) {
	if !s.scanning.TryAcquire(1) {
		return 0, ErrScanInProgress
	}
	defer s.scanning.Release(1)

	scheduled, err := s.challenges.ListScheduled(ctx)
	if err != nil {
		return 0, handleRepositoryError(err, "list scheduled challenges")
	}

	sent := 0
	for _, candidate := range scheduled {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		for _, kind := range reminderKinds {
			if kind.isSent(candidate) || !s.due(candidate, kind, now) {
				continue
			}
			c, claimed, err := s.claim(ctx, candidate.ID, kind, now)
			if err != nil {
				s.logger.Error("failed to claim reminder",
					slog.Int("challenge_id", candidate.ID), slog.String("kind", kind.key), slog.Any("error", err))
				continue
			}
			if !claimed {
				continue
			}
			s.dispatch(ctx, c, kind)
			sent++
		}
	}
	return sent, nil
}

func (s *ReminderService) due(c *models.Challenge, kind reminderKind, now time.Time) bool {
	if c.Status != models.ChallengeStatusAccepted || c.ProposedDate == nil {
		return false
	}
	target := c.ProposedDate.Add(-kind.lead)
	diff := now.Sub(target)
	if diff < 0 {
		diff = -diff
	}
	return diff <= s.tolerance
}

// claim перечитывает вызов под блокировкой и ставит флаг. claimed=false - флаг уже стоял
// или вызов изменился так, что напоминание больше не нужно.
func (s *ReminderService) claim(ctx context.Context, id int, kind reminderKind, now time.Time) (*models.Challenge, bool, error) {
	var c *models.Challenge
	claimed := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.challenges.GetForUpdate(ctx, id)
		if err != nil {
			return handleRepositoryError(err, "load challenge")
		}
		if kind.isSent(c) || !s.due(c, kind, now) {
			return nil
		}
		kind.markSet(c)
		claimed = true
		return handleRepositoryError(s.challenges.Update(ctx, c), "mark reminder sent")
	})
	return c, claimed, err
}

func (s *ReminderService) dispatch(ctx context.Context, c *models.Challenge, kind reminderKind) {
	event := models.Event{Type: models.EventReminderSent, ChallengeID: c.ID, Payload: map[string]string{"reminder": kind.key}, OccurredAt: time.Now()}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish reminder event", slog.Int("challenge_id", c.ID), slog.Any("error", err))
	}

	p, err := loadParticipants(ctx, s.members, c)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load participants for reminder", slog.Int("challenge_id", c.ID), slog.Any("error", err))
		return
	}
	invite := s.notices.buildInvite(c, p)
	subject := "Reminder: your match is " + kind.label
	s.notifier.Dispatch(ctx, []Notice{
		s.notices.notice(kind.key, p.challenger, subject, c, invite, "Opponent: "+p.opponent.Name+".", s.notices.scheduleLine(c)),
		s.notices.notice(kind.key, p.opponent, subject, c, invite, "Opponent: "+p.challenger.Name+".", s.notices.scheduleLine(c)),
	})
	s.logger.InfoContext(ctx, "reminder sent", slog.Int("challenge_id", c.ID), slog.String("kind", kind.key))
}
