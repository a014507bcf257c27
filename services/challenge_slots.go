package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tennis-league/models"
)

// ProposeSlots заменяет список слотов вызова. Каждый слот получает id из общей последовательности.
func (s *ChallengeService) ProposeSlots(ctx context.Context, actor models.Actor, id int, slots []SlotInput) (*models.Challenge, error) {
	if err := validateSlots(slots); err != nil {
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
		if c.Status != models.ChallengeStatusPending && c.Status != models.ChallengeStatusAccepted {
			return ErrChallengeInvalidTransition
		}

		proposed := make([]models.Slot, 0, len(slots))
		for _, in := range slots {
			slotID, err := s.challenges.NextSlotID(ctx)
			if err != nil {
				return handleRepositoryError(err, "allocate slot id")
			}
			slot := models.Slot{ID: slotID, Start: *in.Start}
			if in.End != nil {
				end := *in.End
				slot.End = &end
			}
			proposed = append(proposed, slot)
		}
		c.ProposedSlots = proposed
		c.SlotsProposedBy = intPtr(actor.MemberID)
		return handleRepositoryError(s.challenges.Update(ctx, c), "store proposed slots")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "slots proposed", slog.Int("challenge_id", c.ID), slog.Int("slots", len(c.ProposedSlots)))
	s.afterCommit(ctx, c, models.EventSlotsProposed, actor.MemberID, func(p participants) []Notice {
		lines := make([]string, 0, len(c.ProposedSlots))
		for _, slot := range c.ProposedSlots {
			lines = append(lines, "Option: "+s.notices.formatTime(slot.Start))
		}
		by := p.byID(actor.MemberID)
		return []Notice{s.notices.notice("challenge.slots_proposed", p.other(actor.MemberID), by.Name+" proposed match times", c, nil, lines...)}
	})
	return c, nil
}

// AcceptSlot выбирает один из предложенных слотов: вызов становится Accepted,
// время матча берется из слота, список слотов очищается.
func (s *ChallengeService) AcceptSlot(ctx context.Context, actor models.Actor, id, slotID int, location *string) (*models.Challenge, error) {
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
		if c.Status != models.ChallengeStatusPending && c.Status != models.ChallengeStatusAccepted {
			return ErrChallengeInvalidTransition
		}
		slot, ok := c.FindSlot(slotID)
		if !ok {
			return ErrSlotNotFound
		}
		if c.SlotsProposedBy != nil && *c.SlotsProposedBy == actor.MemberID {
			return ErrSlotProposerCannotAccept
		}

		start := slot.Start
		c.ProposedDate = &start
		if loc := trimmedPtr(location); loc != nil {
			c.Location = loc
		}
		c.Status = models.ChallengeStatusAccepted
		c.ProposedSlots = nil
		c.SlotsProposedBy = nil
		return handleRepositoryError(s.challenges.Update(ctx, c), "accept slot")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "slot accepted", slog.Int("challenge_id", c.ID), slog.Int("slot_id", slotID))
	s.afterCommit(ctx, c, models.EventSlotAccepted, actor.MemberID, func(p participants) []Notice {
		invite := s.notices.buildInvite(c, p)
		return []Notice{
			s.notices.notice("challenge.scheduled", p.challenger, "Match scheduled with "+p.opponent.Name, c, invite, s.notices.scheduleLine(c)),
			s.notices.notice("challenge.scheduled", p.opponent, "Match scheduled with "+p.challenger.Name, c, invite, s.notices.scheduleLine(c)),
		}
	})
	return c, nil
}
