package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/services"
)

type CourtHandler struct {
	courtService *services.CourtService
}

func NewCourtHandler(cs *services.CourtService) *CourtHandler {
	return &CourtHandler{courtService: cs}
}

type createCourtRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Area    string `json:"area" validate:"max=100"`
	Surface string `json:"surface" validate:"max=50"`
	Lights  bool   `json:"lights"`
}

// ListCourts godoc
// @Summary Список кортов
// @Tags courts
// @Produce json
// @Success 200 {array} models.Court
// @Router /courts [get]
func (h *CourtHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	courts, err := h.courtService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"courts": courts})
}

// CreateCourt godoc
// @Summary Добавить корт (администратор)
// @Tags courts
// @Accept json
// @Produce json
// @Param body body createCourtRequest true "Корт"
// @Success 201 {object} models.Court
// @Security BearerAuth
// @Router /courts [post]
func (h *CourtHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input createCourtRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	court, err := h.courtService.Create(r.Context(), actor, models.Court{
		Name:    input.Name,
		Area:    input.Area,
		Surface: input.Surface,
		Lights:  input.Lights,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"court": court})
}
