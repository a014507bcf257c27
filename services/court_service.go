package services

import (
	"context"
	"strings"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
)

type CourtService struct {
	courts repositories.CourtRepository
}

func NewCourtService(courts repositories.CourtRepository) *CourtService {
	return &CourtService{courts: courts}
}

func (s *CourtService) List(ctx context.Context) ([]models.Court, error) {
	courts, err := s.courts.List(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list courts")
	}
	return courts, nil
}

func (s *CourtService) Create(ctx context.Context, actor models.Actor, court models.Court) (*models.Court, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	court.Name = strings.TrimSpace(court.Name)
	if court.Name == "" {
		return nil, ErrNameRequired
	}
	court.Area = strings.TrimSpace(court.Area)
	court.Surface = strings.TrimSpace(court.Surface)
	if err := s.courts.Create(ctx, &court); err != nil {
		return nil, handleRepositoryError(err, "create court")
	}
	return &court, nil
}
