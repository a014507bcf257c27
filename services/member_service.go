package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
	"github.com/Dosada05/tennis-league/storage"
)

const (
	DefaultSkillRating = 3.0
	MinSkillRating     = 1.0
	MaxSkillRating     = 7.0
)

type MemberService struct {
	members  repositories.MemberRepository
	uploader storage.FileUploader // nil - загрузка аватаров отключена
	logger   *slog.Logger
}

func NewMemberService(members repositories.MemberRepository, uploader storage.FileUploader, logger *slog.Logger) *MemberService {
	return &MemberService{members: members, uploader: uploader, logger: logger}
}

type CreateMemberInput struct {
	UserID       *int
	Name         string
	Email        string
	SkillRating  *float64
	Area         string
	Availability []models.DayAvailability
}

func (s *MemberService) Create(ctx context.Context, in CreateMemberInput) (*models.Member, error) {
	m := &models.Member{
		UserID:      in.UserID,
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		SkillRating: DefaultSkillRating,
		EloRating:   models.DefaultEloRating,
		Area:        strings.TrimSpace(in.Area),
		IsActive:    true,
	}
	if m.Name == "" {
		return nil, ErrNameRequired
	}
	if m.Email != "" {
		if _, err := mail.ParseAddress(m.Email); err != nil {
			return nil, ErrEmailInvalid
		}
	}
	if in.SkillRating != nil {
		if *in.SkillRating < MinSkillRating || *in.SkillRating > MaxSkillRating {
			return nil, ErrSkillRatingRange
		}
		m.SkillRating = *in.SkillRating
	}
	m.Availability = models.DefaultAvailability()
	if len(in.Availability) > 0 {
		if err := validateAvailability(in.Availability); err != nil {
			return nil, err
		}
		m.Availability = mergeAvailability(m.Availability, in.Availability)
	}

	if err := s.members.Create(ctx, m); err != nil {
		return nil, handleRepositoryError(err, "create member")
	}
	s.logger.InfoContext(ctx, "member created", slog.Int("member_id", m.ID))
	return m, nil
}

func (s *MemberService) GetByID(ctx context.Context, id int) (*models.Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get member")
	}
	return m, nil
}

func (s *MemberService) GetByUserID(ctx context.Context, userID int) (*models.Member, error) {
	m, err := s.members.GetByUserID(ctx, userID)
	if err != nil {
		return nil, handleRepositoryError(err, "get member by user")
	}
	return m, nil
}

func (s *MemberService) List(ctx context.Context) ([]models.Member, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list members")
	}
	return members, nil
}

// Update применяет частичное изменение профиля. Менять может владелец или администратор.
func (s *MemberService) Update(ctx context.Context, actor models.Actor, id int, patch models.MemberPatch) (*models.Member, error) {
	if !actor.IsAdmin() && actor.MemberID != id {
		return nil, ErrNotProfileOwner
	}
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		m.Name = name
	}
	if patch.Area != nil {
		m.Area = strings.TrimSpace(*patch.Area)
	}
	if patch.SkillRating != nil {
		if *patch.SkillRating < MinSkillRating || *patch.SkillRating > MaxSkillRating {
			return nil, ErrSkillRatingRange
		}
		m.SkillRating = *patch.SkillRating
	}
	if patch.AvatarURL != nil {
		m.AvatarURL = trimmedPtr(patch.AvatarURL)
	}
	if len(patch.Availability) > 0 {
		if err := validateAvailability(patch.Availability); err != nil {
			return nil, err
		}
		m.Availability = mergeAvailability(m.Availability, patch.Availability)
	}

	if err := s.members.Update(ctx, m); err != nil {
		return nil, handleRepositoryError(err, "update member")
	}
	return m, nil
}

// mergeAvailability заменяет дни из patch, остальные дни остаются как были.
func mergeAvailability(current, patch []models.DayAvailability) []models.DayAvailability {
	byDay := make(map[int]models.DayAvailability, 7)
	for _, d := range current {
		byDay[d.Day] = d
	}
	for _, d := range patch {
		byDay[d.Day] = d
	}
	out := make([]models.DayAvailability, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// UploadAvatar загружает изображение в хранилище и сохраняет публичный URL.
// Предыдущий аватар из того же бакета удаляется после успешного сохранения.
func (s *MemberService) UploadAvatar(ctx context.Context, actor models.Actor, id int, contentType string, file io.Reader) (*models.Member, error) {
	if s.uploader == nil {
		return nil, ErrStorageNotConfigured
	}
	if !actor.IsAdmin() && actor.MemberID != id {
		return nil, ErrNotProfileOwner
	}
	ext, ok := storage.AvatarExtension(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}

	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.uploader.Upload(ctx, storage.AvatarKey(id, ext), contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	previous := derefString(m.AvatarURL)
	m.AvatarURL = &result.Location
	if err := s.members.Update(ctx, m); err != nil {
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to clean up uploaded avatar", slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, handleRepositoryError(err, "save avatar")
	}

	if key, ok := s.uploader.KeyFromPublicURL(previous); ok {
		if err := s.uploader.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous avatar", slog.String("key", key), slog.Any("error", err))
		}
	}
	return m, nil
}

// Suggestions предлагает время матча по пересечению недельной доступности двух игроков.
func (s *MemberService) Suggestions(ctx context.Context, memberID, withID int, from time.Time, opts SuggestOptions) ([]time.Time, error) {
	if memberID == withID {
		return nil, ErrSelfChallenge
	}
	a, err := s.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	b, err := s.GetByID(ctx, withID)
	if err != nil {
		return nil, err
	}
	return SuggestMatchTimes(a.Availability, b.Availability, from, opts), nil
}

// Leaderboard - активные игроки по победам (больше лучше), затем по поражениям (меньше лучше).
func (s *MemberService) Leaderboard(ctx context.Context) ([]models.StandingRow, error) {
	members, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]models.StandingRow, 0, len(members))
	for _, m := range members {
		if !m.IsActive {
			continue
		}
		rows = append(rows, standingRow(m.ID, m.Name, "", m.Wins, m.Losses, m.EloRating))
	}
	sortStandings(rows)
	return rows, nil
}
