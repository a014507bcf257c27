package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tennis-league/models"
)

// ReportResult фиксирует счет и победителя; результат ждет подтверждения соперника.
func (s *ChallengeService) ReportResult(ctx context.Context, actor models.Actor, id, winnerID int, sets []models.SetScore) (*models.Challenge, error) {
	if winnerID == 0 {
		return nil, ErrWinnerRequired
	}
	if err := validateSets(sets); err != nil {
		return nil, err
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
		if !c.IsParticipant(winnerID) {
			return ErrWinnerNotParticipant
		}
		if c.Status != models.ChallengeStatusAccepted {
			return ErrChallengeInvalidTransition
		}

		c.Status = models.ChallengeStatusResultPending
		c.VerificationStatus = models.VerificationPending
		c.WinnerMemberID = intPtr(winnerID)
		c.Sets = append([]models.SetScore(nil), sets...)
		c.ResultReportedBy = intPtr(actor.MemberID)
		c.ContestNote = nil
		return handleRepositoryError(s.challenges.Update(ctx, c), "report result")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "result reported",
		slog.Int("challenge_id", c.ID), slog.Int("winner_id", winnerID), slog.Int("reported_by", actor.MemberID))
	s.afterCommit(ctx, c, models.EventResultReported, actor.MemberID, func(p participants) []Notice {
		reporter := p.byID(actor.MemberID)
		return []Notice{s.notices.notice("challenge.result_reported", p.other(actor.MemberID),
			reporter.Name+" reported a result, please verify", c, nil,
			"Winner: "+p.byID(winnerID).Name+".", scoreLine(c.Sets))}
	})
	return c, nil
}

// VerifyResult: подтверждение или оспаривание результата участником, который его не сообщал.
// Статистика начисляется только при переходе ResultPending→Completed, поэтому повторное
// подтверждение отклоняется и не учитывается дважды.
func (s *ChallengeService) VerifyResult(ctx context.Context, actor models.Actor, id int, approve bool, note *string) (*models.Challenge, error) {
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
		if c.Status != models.ChallengeStatusResultPending || c.WinnerMemberID == nil {
			return ErrChallengeInvalidTransition
		}
		if c.ResultReportedBy != nil && *c.ResultReportedBy == actor.MemberID {
			return ErrSelfVerification
		}

		if !approve {
			c.VerificationStatus = models.VerificationContested
			c.ContestNote = trimmedPtr(note)
			return handleRepositoryError(s.challenges.Update(ctx, c), "contest result")
		}

		c.Status = models.ChallengeStatusCompleted
		c.VerificationStatus = models.VerificationVerified
		if err := s.creditResult(ctx, c, *c.WinnerMemberID); err != nil {
			return err
		}
		return handleRepositoryError(s.challenges.Update(ctx, c), "verify result")
	})
	if err != nil {
		return nil, err
	}

	if !approve {
		s.logger.InfoContext(ctx, "result contested", slog.Int("challenge_id", c.ID), slog.Int("actor_id", actor.MemberID))
		s.afterCommit(ctx, c, models.EventResultContested, actor.MemberID, func(p participants) []Notice {
			reporter := p.other(actor.MemberID)
			return []Notice{s.notices.notice("challenge.result_contested", reporter,
				p.byID(actor.MemberID).Name+" contested the reported result", c, nil,
				"Note: "+derefString(c.ContestNote),
				"An administrator will review the match.")}
		})
		return c, nil
	}

	s.logger.InfoContext(ctx, "result verified", slog.Int("challenge_id", c.ID), slog.Int("winner_id", *c.WinnerMemberID))
	s.afterCommit(ctx, c, models.EventResultVerified, actor.MemberID, s.resultNotices(c, "challenge.result_verified", "Result verified"))
	return c, nil
}

// AdminOverride назначает победителя для отправленного (в т.ч. оспоренного) или уже
// завершенного результата. Если статистика уже начислялась,
// прежнее начисление сначала снимается, поэтому повтор с тем же победителем ничего не меняет.
func (s *ChallengeService) AdminOverride(ctx context.Context, actor models.Actor, id, winnerID int) (*models.Challenge, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if winnerID == 0 {
		return nil, ErrWinnerRequired
	}

	var c *models.Challenge
	var previousWinner *int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.loadForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c.Status != models.ChallengeStatusResultPending && c.Status != models.ChallengeStatusCompleted {
			return ErrChallengeInvalidTransition
		}
		if !c.IsParticipant(winnerID) {
			return ErrWinnerNotParticipant
		}

		previousWinner = c.WinnerMemberID
		if c.StatsApplied && c.WinnerMemberID != nil {
			if err := s.reverseResult(ctx, c, *c.WinnerMemberID); err != nil {
				return err
			}
		}

		c.Status = models.ChallengeStatusCompleted
		c.VerificationStatus = models.VerificationVerified
		if err := s.creditResult(ctx, c, winnerID); err != nil {
			return err
		}
		return handleRepositoryError(s.challenges.Update(ctx, c), "override result")
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{slog.Int("challenge_id", c.ID), slog.Int("winner_id", winnerID)}
	if previousWinner != nil {
		attrs = append(attrs, slog.Int("previous_winner_id", *previousWinner))
	}
	s.logger.InfoContext(ctx, "result overridden by admin", attrs...)
	s.afterCommit(ctx, c, models.EventResultOverridden, actor.MemberID, s.resultNotices(c, "challenge.result_overridden", "Result set by league admin"))
	return c, nil
}

// creditResult начисляет победу и поражение и помечает вызов.
func (s *ChallengeService) creditResult(ctx context.Context, c *models.Challenge, winnerID int) error {
	loserID, ok := c.OtherParticipant(winnerID)
	if !ok {
		return ErrWinnerNotParticipant
	}
	if err := s.members.AdjustRecord(ctx, winnerID, 1, 0); err != nil {
		return handleRepositoryError(err, "credit winner")
	}
	if err := s.members.AdjustRecord(ctx, loserID, 0, 1); err != nil {
		return handleRepositoryError(err, "credit loser")
	}
	c.WinnerMemberID = intPtr(winnerID)
	c.StatsApplied = true
	return nil
}

func (s *ChallengeService) reverseResult(ctx context.Context, c *models.Challenge, winnerID int) error {
	loserID, ok := c.OtherParticipant(winnerID)
	if !ok {
		return ErrWinnerNotParticipant
	}
	if err := s.members.AdjustRecord(ctx, winnerID, -1, 0); err != nil {
		return handleRepositoryError(err, "reverse winner")
	}
	if err := s.members.AdjustRecord(ctx, loserID, 0, -1); err != nil {
		return handleRepositoryError(err, "reverse loser")
	}
	c.StatsApplied = false
	return nil
}

func (s *ChallengeService) resultNotices(c *models.Challenge, kind, subject string) func(p participants) []Notice {
	return func(p participants) []Notice {
		lines := []string{"Winner: " + p.byID(*c.WinnerMemberID).Name + "."}
		if len(c.Sets) > 0 {
			lines = append(lines, scoreLine(c.Sets))
		}
		return []Notice{
			s.notices.notice(kind, p.challenger, subject, c, nil, lines...),
			s.notices.notice(kind, p.opponent, subject, c, nil, lines...),
		}
	}
}
