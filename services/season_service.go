package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
)

type SeasonService struct {
	seasons    repositories.SeasonRepository
	members    repositories.MemberRepository
	challenges repositories.ChallengeRepository
	notifier   Notifier
	logger     *slog.Logger
}

func NewSeasonService(
	seasons repositories.SeasonRepository,
	members repositories.MemberRepository,
	challenges repositories.ChallengeRepository,
	notifier Notifier,
	logger *slog.Logger,
) *SeasonService {
	return &SeasonService{seasons: seasons, members: members, challenges: challenges, notifier: notifier, logger: logger}
}

type CreateSeasonInput struct {
	Name      string
	Start     time.Time
	End       time.Time
	Divisions []string
	IsActive  bool
}

func (s *SeasonService) Create(ctx context.Context, actor models.Actor, in CreateSeasonInput) (*models.Season, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if in.Start.IsZero() || in.End.IsZero() || !in.Start.Before(in.End) {
		return nil, ErrSeasonDatesInvalid
	}

	divisions := make([]string, 0, len(in.Divisions))
	seen := make(map[string]bool, len(in.Divisions))
	for _, d := range in.Divisions {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		divisions = append(divisions, d)
	}
	if len(divisions) == 0 {
		return nil, ErrDivisionsRequired
	}

	season := &models.Season{
		Name:      name,
		Start:     in.Start,
		End:       in.End,
		Divisions: divisions,
		IsActive:  in.IsActive,
	}
	if err := s.seasons.Create(ctx, season); err != nil {
		return nil, handleRepositoryError(err, "create season")
	}
	s.logger.InfoContext(ctx, "season created", slog.Int("season_id", season.ID), slog.String("name", season.Name))
	return season, nil
}

func (s *SeasonService) List(ctx context.Context) ([]models.Season, error) {
	seasons, err := s.seasons.List(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list seasons")
	}
	return seasons, nil
}

func (s *SeasonService) GetByID(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasons.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get season")
	}
	return season, nil
}

// Enroll записывает игрока в сезон. Без дивизиона берется первый дивизион сезона.
func (s *SeasonService) Enroll(ctx context.Context, actor models.Actor, seasonID, memberID int, division *string) (*models.SeasonEnrollment, error) {
	if !actor.IsAdmin() && actor.MemberID != memberID {
		return nil, ErrNotProfileOwner
	}
	season, err := s.GetByID(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season.Locked {
		return nil, ErrSeasonLocked
	}
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, handleRepositoryError(err, "load member")
	}

	div := derefString(trimmedPtr(division))
	switch {
	case div == "" && len(season.Divisions) > 0:
		div = season.Divisions[0]
	case div == "":
		div = models.DefaultDivision
	case len(season.Divisions) > 0 && !season.HasDivision(div):
		return nil, ErrDivisionInvalid
	}

	e := &models.SeasonEnrollment{SeasonID: seasonID, MemberID: memberID, Division: div}
	if err := s.seasons.Enroll(ctx, e); err != nil {
		return nil, handleRepositoryError(err, "enroll member")
	}
	s.logger.InfoContext(ctx, "member enrolled", slog.Int("season_id", seasonID), slog.Int("member_id", memberID), slog.String("division", div))
	return e, nil
}

func (s *SeasonService) Unenroll(ctx context.Context, actor models.Actor, seasonID, memberID int) error {
	if !actor.IsAdmin() && actor.MemberID != memberID {
		return ErrNotProfileOwner
	}
	season, err := s.GetByID(ctx, seasonID)
	if err != nil {
		return err
	}
	if season.Locked {
		return ErrSeasonLocked
	}
	if err := s.seasons.Unenroll(ctx, seasonID, memberID); err != nil {
		return handleRepositoryError(err, "unenroll member")
	}
	return nil
}

func (s *SeasonService) SetLocked(ctx context.Context, actor models.Actor, seasonID int, locked bool) (*models.Season, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if err := s.seasons.SetLocked(ctx, seasonID, locked); err != nil {
		return nil, handleRepositoryError(err, "lock season")
	}
	return s.GetByID(ctx, seasonID)
}

func (s *SeasonService) ListEnrollments(ctx context.Context, seasonID int) ([]models.SeasonEnrollment, error) {
	if _, err := s.GetByID(ctx, seasonID); err != nil {
		return nil, err
	}
	enrollments, err := s.seasons.ListEnrollments(ctx, seasonID)
	if err != nil {
		return nil, handleRepositoryError(err, "list enrollments")
	}
	return enrollments, nil
}

// Standings считает таблицу сезона по подтвержденным вызовам сезона среди записанных игроков.
// Матчи, завершенные без счета, не учитываются.
func (s *SeasonService) Standings(ctx context.Context, seasonID int, division string) ([]models.StandingRow, error) {
	enrollments, err := s.ListEnrollments(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	verified, err := s.challenges.ListVerifiedBySeason(ctx, seasonID)
	if err != nil {
		return nil, handleRepositoryError(err, "list verified challenges")
	}

	type record struct{ wins, losses int }
	records := make(map[int]*record)
	divisions := make(map[int]string)
	for _, e := range enrollments {
		if division != "" && e.Division != division {
			continue
		}
		records[e.MemberID] = &record{}
		divisions[e.MemberID] = e.Division
	}

	for _, c := range verified {
		if c.WinnerMemberID == nil {
			continue
		}
		winner := *c.WinnerMemberID
		loser, ok := c.OtherParticipant(winner)
		if !ok {
			continue
		}
		if r, ok := records[winner]; ok {
			r.wins++
		}
		if r, ok := records[loser]; ok {
			r.losses++
		}
	}

	rows := make([]models.StandingRow, 0, len(records))
	for memberID, r := range records {
		m, err := s.members.GetByID(ctx, memberID)
		if err != nil {
			return nil, handleRepositoryError(err, "load standings member")
		}
		rows = append(rows, standingRow(memberID, m.Name, divisions[memberID], r.wins, r.losses, m.EloRating))
	}
	sortStandings(rows)
	return rows, nil
}

// EmailDivision рассылает письмо всем записанным в сезон (или в один дивизион).
// Возвращает число адресатов с email.
func (s *SeasonService) EmailDivision(ctx context.Context, actor models.Actor, seasonID int, division, subject, html string) (int, error) {
	if !actor.IsAdmin() {
		return 0, ErrAdminOnly
	}
	subject, html = strings.TrimSpace(subject), strings.TrimSpace(html)
	if subject == "" || html == "" {
		return 0, ErrBroadcastInvalid
	}
	enrollments, err := s.ListEnrollments(ctx, seasonID)
	if err != nil {
		return 0, err
	}

	notices := make([]Notice, 0, len(enrollments))
	for _, e := range enrollments {
		if division != "" && e.Division != division {
			continue
		}
		m, err := s.members.GetByID(ctx, e.MemberID)
		if err != nil {
			return 0, handleRepositoryError(err, "load enrolled member")
		}
		if m.Email == "" {
			continue
		}
		notices = append(notices, Notice{Kind: "season.broadcast", To: m.Email, Subject: subject, HTML: html})
	}

	s.notifier.Dispatch(ctx, notices)
	s.logger.InfoContext(ctx, "season email sent", slog.Int("season_id", seasonID), slog.String("division", division), slog.Int("recipients", len(notices)))
	return len(notices), nil
}

func standingRow(memberID int, name, division string, wins, losses, elo int) models.StandingRow {
	row := models.StandingRow{MemberID: memberID, Name: name, Division: division, Wins: wins, Losses: losses, Elo: elo}
	if played := wins + losses; played > 0 {
		row.Pct = float64(wins) / float64(played)
	}
	return row
}

// sortStandings: победы по убыванию, поражения по возрастанию, процент побед по убыванию.
func sortStandings(rows []models.StandingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		if a.Pct != b.Pct {
			return a.Pct > b.Pct
		}
		return a.MemberID < b.MemberID
	})
}
