package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/tennis-league/calendar"
	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(cs *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs}
}

type createChallengeRequest struct {
	ChallengerMemberID int        `json:"challenger_member_id" validate:"omitempty,gt=0"`
	OpponentMemberID   int        `json:"opponent_member_id" validate:"required,gt=0"`
	ProposedDate       *time.Time `json:"proposed_date"`
	Location           *string    `json:"location" validate:"omitempty,max=200"`
	Message            *string    `json:"message" validate:"omitempty,max=1000"`
	SeasonID           *int       `json:"season_id" validate:"omitempty,gt=0"`
	Division           *string    `json:"division" validate:"omitempty,max=50"`
}

type updateStatusRequest struct {
	Status models.ChallengeStatus `json:"status" validate:"required"`
}

type rescheduleRequest struct {
	ProposedDate *time.Time `json:"proposed_date"`
	Location     *string    `json:"location" validate:"omitempty,max=200"`
}

type slotRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type proposeSlotsRequest struct {
	Slots []slotRequest `json:"slots" validate:"max=10"`
}

type acceptSlotRequest struct {
	SlotID   int     `json:"slot_id" validate:"required,gt=0"`
	Location *string `json:"location" validate:"omitempty,max=200"`
}

type reportResultRequest struct {
	WinnerMemberID int               `json:"winner_member_id"`
	Sets           []models.SetScore `json:"sets"`
}

type verifyResultRequest struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note" validate:"omitempty,max=1000"`
}

type overrideRequest struct {
	WinnerMemberID int `json:"winner_member_id" validate:"required,gt=0"`
}

// CreateChallenge godoc
// @Summary Создать вызов
// @Tags challenges
// @Accept json
// @Produce json
// @Param body body createChallengeRequest true "Соперник, дата, корт, сезон"
// @Success 201 {object} models.Challenge
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /challenges [post]
func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	var input createChallengeRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	challenge, err := h.challengeService.CreateChallenge(r.Context(), actor, services.CreateChallengeInput{
		ChallengerMemberID: input.ChallengerMemberID,
		OpponentMemberID:   input.OpponentMemberID,
		ProposedDate:       input.ProposedDate,
		Location:           input.Location,
		Message:            input.Message,
		SeasonID:           input.SeasonID,
		Division:           input.Division,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"challenge": challenge})
}

// GetChallenge godoc
// @Summary Получить вызов по ID
// @Tags challenges
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Success 200 {object} models.Challenge
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /challenges/{challengeID} [get]
func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	challenge, err := h.challengeService.GetChallenge(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"challenge": challenge})
}

// ListForMember godoc
// @Summary Входящие и исходящие вызовы игрока
// @Tags challenges
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {object} models.MemberChallenges
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /challenges/member/{memberID} [get]
func (h *ChallengeHandler) ListForMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	lists, err := h.challengeService.ListForMember(r.Context(), actor, memberID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, lists)
}

// ListAdmin godoc
// @Summary Очередь результатов на проверку
// @Tags admin
// @Produce json
// @Success 200 {object} models.AdminQueue
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /challenges/admin [get]
func (h *ChallengeHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	queue, err := h.challengeService.ListAdmin(r.Context(), actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, queue)
}

// UpdateStatus godoc
// @Summary Принять, отклонить, отменить или завершить вызов
// @Tags challenges
// @Accept json
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Param body body updateStatusRequest true "Новый статус"
// @Success 200 {object} models.Challenge
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /challenges/{challengeID}/status [patch]
func (h *ChallengeHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var input updateStatusRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	challenge, err := h.challengeService.UpdateStatus(r.Context(), actor, id, input.Status)
	h.writeChallenge(w, r, challenge, err)
}

// Reschedule godoc
// @Summary Перенести дату вызова
// @Tags challenges
// @Accept json
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Param body body rescheduleRequest true "Новая дата и корт"
// @Success 200 {object} models.Challenge
// @Security BearerAuth
// @Router /challenges/{challengeID}/schedule [patch]
func (h *ChallengeHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var input rescheduleRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	challenge, err := h.challengeService.Reschedule(r.Context(), actor, id, input.ProposedDate, input.Location)
	h.writeChallenge(w, r, challenge, err)
}

// ProposeSlots godoc
// @Summary Предложить варианты времени
// @Tags challenges
// @Accept json
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Param body body proposeSlotsRequest true "Слоты"
// @Success 200 {object} models.Challenge
// @Security BearerAuth
// @Router /challenges/{challengeID}/slots [post]
func (h *ChallengeHandler) ProposeSlots(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var input proposeSlotsRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	slots := make([]services.SlotInput, 0, len(input.Slots))
	for _, s := range input.Slots {
		slots = append(slots, services.SlotInput{Start: s.Start, End: s.End})
	}
	challenge, err := h.challengeService.ProposeSlots(r.Context(), actor, id, slots)
	h.writeChallenge(w, r, challenge, err)
}

// AcceptSlot godoc
// @Summary Принять предложенный слот
// @Tags challenges
// @Accept json
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Param body body acceptSlotRequest true "ID слота"
// @Success 200 {object} models.Challenge
// @Security BearerAuth
// @Router /challenges/{challengeID}/accept-slot [post]
func (h *ChallengeHandler) AcceptSlot(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var input acceptSlotRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	challenge, err := h.challengeService.AcceptSlot(r.Context(), actor, id, input.SlotID, input.Location)
	h.writeChallenge(w, r, challenge, err)
}

// ReportResult godoc
// @Summary Сообщить результат матча
// @Tags challenges
// @Accept json
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Param body body reportResultRequest true "Победитель и счет по сетам"
// @Success 200 {object} models.Challenge
// @Security BearerAuth
// @Router /challenges/{challengeID}/report [post]
func (h *ChallengeHandler) ReportResult(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var input reportResultRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	challenge, err := h.challengeService.ReportResult(r.Context(), actor, id, input.WinnerMemberID, input.Sets)
	h.writeChallenge(w, r, challenge, err)
}

// VerifyResult godoc
// @Summary Подтвердить или оспорить результат
// @Tags challenges
// @Accept json
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Param body body verifyResultRequest true "approve=true подтверждает"
// @Success 200 {object} models.Challenge
// @Security BearerAuth
// @Router /challenges/{challengeID}/verify [post]
func (h *ChallengeHandler) VerifyResult(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var input verifyResultRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	challenge, err := h.challengeService.VerifyResult(r.Context(), actor, id, input.Approve, input.Note)
	h.writeChallenge(w, r, challenge, err)
}

// AdminOverride godoc
// @Summary Назначить победителя (администратор)
// @Tags admin
// @Accept json
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Param body body overrideRequest true "Победитель"
// @Success 200 {object} models.Challenge
// @Security BearerAuth
// @Router /challenges/{challengeID}/override [post]
func (h *ChallengeHandler) AdminOverride(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var input overrideRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	challenge, err := h.challengeService.AdminOverride(r.Context(), actor, id, input.WinnerMemberID)
	h.writeChallenge(w, r, challenge, err)
}

// CalendarInvite godoc
// @Summary Скачать приглашение в календарь
// @Tags challenges
// @Produce text/calendar
// @Param challengeID path int true "Challenge ID"
// @Success 200 {string} string "ICS"
// @Failure 400 {object} map[string]string "Дата матча не назначена"
// @Security BearerAuth
// @Router /challenges/{challengeID}/invite.ics [get]
func (h *ChallengeHandler) CalendarInvite(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	ics, err := h.challengeService.CalendarInvite(r.Context(), actor, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.Header().Set("Content-Type", calendar.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="challenge-`+strconv.Itoa(id)+`.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(ics); err != nil {
		logFor(r).Error("failed to write calendar invite", slog.Any("error", err))
	}
}

func (h *ChallengeHandler) actorAndID(w http.ResponseWriter, r *http.Request) (models.Actor, int, bool) {
	actor, ok := currentActor(w, r)
	if !ok {
		return models.Actor{}, 0, false
	}
	id, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return models.Actor{}, 0, false
	}
	return actor, id, true
}

func (h *ChallengeHandler) writeChallenge(w http.ResponseWriter, r *http.Request, c *models.Challenge, err error) {
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"challenge": c})
}
