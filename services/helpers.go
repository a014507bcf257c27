package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/tennis-league/repositories"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// trimmedPtr возвращает nil для nil или пустой после TrimSpace строки.
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func intPtr(v int) *int {
	return &v
}

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисов.
// Неизвестные ошибки оборачиваются с контекстом операции.
func handleRepositoryError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrChallengeNotFound):
		return ErrChallengeNotFound
	case errors.Is(err, repositories.ErrMemberNotFound):
		return ErrMemberNotFound
	case errors.Is(err, repositories.ErrSeasonNotFound):
		return ErrSeasonNotFound
	case errors.Is(err, repositories.ErrEnrollmentNotFound):
		return ErrEnrollmentNotFound
	case errors.Is(err, repositories.ErrChallengeMemberInvalid):
		return ErrParticipantInvalid
	case errors.Is(err, repositories.ErrChallengeSeasonInvalid):
		return ErrSeasonInvalid
	case errors.Is(err, repositories.ErrChallengeSameMember):
		return ErrSelfChallenge
	case errors.Is(err, repositories.ErrChallengeWinnerMismatch):
		return ErrWinnerNotParticipant
	case errors.Is(err, repositories.ErrEnrollmentConflict):
		return ErrEnrollmentConflict
	case errors.Is(err, repositories.ErrEnrollmentRefInvalid):
		return ErrMemberNotFound
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrMemberUserConflict):
		return ErrMemberUserConflict
	case errors.Is(err, repositories.ErrChatChallengeInvalid):
		return ErrChallengeNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
