package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/tennis-league/calendar"
	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
)

// NoticeConfig - параметры писем и приглашений.
type NoticeConfig struct {
	CalendarDomain string
	PublicURL      string
	Organizer      string // адрес отправителя, попадает в ORGANIZER
	Location       *time.Location
}

type participants struct {
	challenger *models.Member
	opponent   *models.Member
}

func (p participants) emails() []string {
	return []string{p.challenger.Email, p.opponent.Email}
}

// other возвращает соперника memberID.
func (p participants) other(memberID int) *models.Member {
	if p.challenger.ID == memberID {
		return p.opponent
	}
	return p.challenger
}

func (p participants) byID(memberID int) *models.Member {
	if p.challenger.ID == memberID {
		return p.challenger
	}
	return p.opponent
}

func loadParticipants(ctx context.Context, members repositories.MemberRepository, c *models.Challenge) (participants, error) {
	challenger, err := members.GetByID(ctx, c.ChallengerMemberID)
	if err != nil {
		return participants{}, fmt.Errorf("load challenger %d: %w", c.ChallengerMemberID, err)
	}
	opponent, err := members.GetByID(ctx, c.OpponentMemberID)
	if err != nil {
		return participants{}, fmt.Errorf("load opponent %d: %w", c.OpponentMemberID, err)
	}
	return participants{challenger: challenger, opponent: opponent}, nil
}

func (cfg NoticeConfig) challengeLink(id int) string {
	if cfg.PublicURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/challenges/%d", strings.TrimSuffix(cfg.PublicURL, "/"), id)
}

func (cfg NoticeConfig) formatTime(t time.Time) string {
	if cfg.Location != nil {
		t = t.In(cfg.Location)
	}
	return t.Format("Mon, Jan 2 2006 at 15:04 MST")
}

// buildInvite возвращает nil, если время матча не назначено.
func (cfg NoticeConfig) buildInvite(c *models.Challenge, p participants) []byte {
	if c.ProposedDate == nil {
		return nil
	}
	return calendar.BuildInvite(calendar.Invite{
		UID:       calendar.ChallengeUID(c.ID, cfg.CalendarDomain),
		Start:     *c.ProposedDate,
		Title:     fmt.Sprintf("Tennis challenge: %s vs %s", p.challenger.Name, p.opponent.Name),
		Location:  derefString(c.Location),
		Organizer: cfg.Organizer,
		Attendees: p.emails(),
	})
}

func (cfg NoticeConfig) notice(kind string, to *models.Member, subject string, c *models.Challenge, invite []byte, lines ...string) Notice {
	nonEmpty := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	return Notice{
		Kind:    kind,
		To:      to.Email,
		Subject: subject,
		HTML: renderNotice(noticeView{
			Heading: subject,
			Lines:   nonEmpty,
			Link:    cfg.challengeLink(c.ID),
		}),
		Calendar: invite,
	}
}

func (cfg NoticeConfig) scheduleLine(c *models.Challenge) string {
	if c.ProposedDate == nil {
		return "No time has been scheduled yet."
	}
	loc := derefString(c.Location)
	if loc == "" {
		loc = calendar.DefaultLocation
	}
	return fmt.Sprintf("When: %s. Where: %s.", cfg.formatTime(*c.ProposedDate), loc)
}

func scoreLine(sets []models.SetScore) string {
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = fmt.Sprintf("%d-%d", s.A, s.B)
	}
	return "Score: " + strings.Join(parts, ", ")
}
