package handlers

import (
	"net/http"
	"time"

	"github.com/Dosada05/tennis-league/services"
)

type SeasonHandler struct {
	seasonService *services.SeasonService
}

func NewSeasonHandler(ss *services.SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonService: ss}
}

type createSeasonRequest struct {
	Name      string    `json:"name" validate:"required,max=100"`
	Start     time.Time `json:"start" validate:"required"`
	End       time.Time `json:"end" validate:"required"`
	Divisions []string  `json:"divisions" validate:"required,min=1,dive,required,max=50"`
	IsActive  bool      `json:"is_active"`
}

type enrollRequest struct {
	MemberID int     `json:"member_id" validate:"omitempty,gt=0"`
	Division *string `json:"division" validate:"omitempty,max=50"`
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

type divisionEmailRequest struct {
	Division string `json:"division" validate:"max=50"`
	Subject  string `json:"subject" validate:"required,max=200"`
	HTML     string `json:"html" validate:"required"`
}

// ListSeasons godoc
// @Summary Список сезонов
// @Tags seasons
// @Produce json
// @Success 200 {array} models.Season
// @Router /seasons [get]
func (h *SeasonHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.seasonService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"seasons": seasons})
}

// GetSeason godoc
// @Summary Сезон по ID
// @Tags seasons
// @Produce json
// @Param seasonID path int true "Season ID"
// @Success 200 {object} models.Season
// @Router /seasons/{seasonID} [get]
func (h *SeasonHandler) GetSeason(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	season, err := h.seasonService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"season": season})
}

// CreateSeason godoc
// @Summary Создать сезон (администратор)
// @Tags seasons
// @Accept json
// @Produce json
// @Param body body createSeasonRequest true "Сезон"
// @Success 201 {object} models.Season
// @Security BearerAuth
// @Router /seasons [post]
func (h *SeasonHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input createSeasonRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	season, err := h.seasonService.Create(r.Context(), actor, services.CreateSeasonInput{
		Name:      input.Name,
		Start:     input.Start,
		End:       input.End,
		Divisions: input.Divisions,
		IsActive:  input.IsActive,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"season": season})
}

// Enroll godoc
// @Summary Записаться в сезон
// @Tags seasons
// @Accept json
// @Produce json
// @Param seasonID path int true "Season ID"
// @Param body body enrollRequest false "member_id по умолчанию - текущий игрок"
// @Success 201 {object} models.SeasonEnrollment
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /seasons/{seasonID}/enroll [post]
func (h *SeasonHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input enrollRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, &input) {
			return
		}
	}
	if input.MemberID == 0 {
		input.MemberID = actor.MemberID
	}
	enrollment, err := h.seasonService.Enroll(r.Context(), actor, seasonID, input.MemberID, input.Division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"enrollment": enrollment})
}

// Unenroll godoc
// @Summary Отписать игрока от сезона
// @Tags seasons
// @Param seasonID path int true "Season ID"
// @Param memberID path int true "Member ID"
// @Success 204
// @Security BearerAuth
// @Router /seasons/{seasonID}/enroll/{memberID} [delete]
func (h *SeasonHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.seasonService.Unenroll(r.Context(), actor, seasonID, memberID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetLocked godoc
// @Summary Закрыть или открыть запись (администратор)
// @Tags seasons
// @Accept json
// @Produce json
// @Param seasonID path int true "Season ID"
// @Param body body lockRequest true "locked"
// @Success 200 {object} models.Season
// @Security BearerAuth
// @Router /seasons/{seasonID}/lock [patch]
func (h *SeasonHandler) SetLocked(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input lockRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	season, err := h.seasonService.SetLocked(r.Context(), actor, seasonID, input.Locked)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"season": season})
}

// ListEnrollments godoc
// @Summary Записавшиеся в сезон
// @Tags seasons
// @Produce json
// @Param seasonID path int true "Season ID"
// @Success 200 {array} models.SeasonEnrollment
// @Router /seasons/{seasonID}/enrollments [get]
func (h *SeasonHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	enrollments, err := h.seasonService.ListEnrollments(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"enrollments": enrollments})
}

// Standings godoc
// @Summary Таблица сезона
// @Tags seasons
// @Produce json
// @Param seasonID path int true "Season ID"
// @Param division query string false "Дивизион"
// @Success 200 {array} models.StandingRow
// @Router /seasons/{seasonID}/standings [get]
func (h *SeasonHandler) Standings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	rows, err := h.seasonService.Standings(r.Context(), seasonID, r.URL.Query().Get("division"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"standings": rows})
}

// EmailDivision godoc
// @Summary Рассылка игрокам сезона (администратор)
// @Tags seasons
// @Accept json
// @Produce json
// @Param seasonID path int true "Season ID"
// @Param body body divisionEmailRequest true "Тема и HTML"
// @Success 202 {object} map[string]int
// @Security BearerAuth
// @Router /seasons/{seasonID}/email [post]
func (h *SeasonHandler) EmailDivision(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input divisionEmailRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	sent, err := h.seasonService.EmailDivision(r.Context(), actor, seasonID, input.Division, input.Subject, input.HTML)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusAccepted, jsonResponse{"recipients": sent})
}

// Pairings godoc
// @Summary Круговая сетка дивизиона
// @Tags seasons
// @Produce json
// @Param seasonID path int true "Season ID"
// @Param division query string false "Дивизион, по умолчанию первый"
// @Success 200 {array} models.Pairing
// @Router /seasons/{seasonID}/pairings [get]
func (h *SeasonHandler) Pairings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	pairings, err := h.seasonService.Pairings(r.Context(), seasonID, r.URL.Query().Get("division"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"pairings": pairings})
}
