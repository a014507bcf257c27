package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/services"
)

const maxAvatarBytes = 5 << 20

type MemberHandler struct {
	memberService *services.MemberService
	location      *time.Location // часовой пояс лиги для подбора времени
}

func NewMemberHandler(ms *services.MemberService, location *time.Location) *MemberHandler {
	if location == nil {
		location = time.UTC
	}
	return &MemberHandler{memberService: ms, location: location}
}

type createMemberRequest struct {
	UserID       *int                     `json:"user_id" validate:"omitempty,gt=0"`
	Name         string                   `json:"name" validate:"required,max=100"`
	Email        string                   `json:"email" validate:"omitempty,email"`
	SkillRating  *float64                 `json:"tennis_rating" validate:"omitempty,min=1,max=7"`
	Area         string                   `json:"area" validate:"max=100"`
	Availability []models.DayAvailability `json:"availability" validate:"max=7"`
}

// ListMembers godoc
// @Summary Список игроков
// @Tags members
// @Produce json
// @Success 200 {array} models.Member
// @Router /members [get]
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"members": members})
}

// GetMember godoc
// @Summary Игрок по ID
// @Tags members
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {object} models.Member
// @Failure 404 {object} map[string]string
// @Router /members/{memberID} [get]
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	member, err := h.memberService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"member": member})
}

// GetMemberByUser godoc
// @Summary Профиль игрока по ID пользователя
// @Tags members
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} models.Member
// @Failure 404 {object} map[string]string
// @Router /members/user/{userID} [get]
func (h *MemberHandler) GetMemberByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	member, err := h.memberService.GetByUserID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"member": member})
}

// CreateMember godoc
// @Summary Создать игрока (администратор)
// @Tags members
// @Accept json
// @Produce json
// @Param body body createMemberRequest true "Профиль"
// @Success 201 {object} models.Member
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /members [post]
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var input createMemberRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	member, err := h.memberService.Create(r.Context(), services.CreateMemberInput{
		UserID:       input.UserID,
		Name:         input.Name,
		Email:        input.Email,
		SkillRating:  input.SkillRating,
		Area:         input.Area,
		Availability: input.Availability,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"member": member})
}

// UpdateMember godoc
// @Summary Изменить профиль игрока
// @Tags members
// @Accept json
// @Produce json
// @Param memberID path int true "Member ID"
// @Param body body models.MemberPatch true "Изменяемые поля"
// @Success 200 {object} models.Member
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /members/{memberID} [patch]
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var patch models.MemberPatch
	if !decodeAndValidate(w, r, &patch) {
		return
	}
	member, err := h.memberService.Update(r.Context(), actor, id, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"member": member})
}

// UploadAvatar godoc
// @Summary Загрузить аватар
// @Tags members
// @Accept multipart/form-data
// @Produce json
// @Param memberID path int true "Member ID"
// @Param avatar formData file true "Изображение jpeg/png/webp"
// @Success 200 {object} models.Member
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /members/{memberID}/avatar [post]
func (h *MemberHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+1024)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	member, err := h.memberService.UploadAvatar(r.Context(), actor, id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"member": member})
}

// Suggestions godoc
// @Summary Подобрать время матча с другим игроком
// @Tags members
// @Produce json
// @Param memberID path int true "Member ID"
// @Param with query int true "ID соперника"
// @Param from query string false "RFC3339, по умолчанию сейчас"
// @Param days query int false "Горизонт в днях"
// @Success 200 {array} string
// @Router /members/{memberID}/suggestions [get]
func (h *MemberHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	q := r.URL.Query()
	withID, err := strconv.Atoi(q.Get("with"))
	if err != nil || withID <= 0 {
		failedValidationResponse(w, r, map[string]string{"with": "must be a positive member id"})
		return
	}

	from := time.Now().In(h.location)
	if raw := q.Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			failedValidationResponse(w, r, map[string]string{"from": "must be RFC3339"})
			return
		}
		from = parsed.In(h.location)
	}

	var opts services.SuggestOptions
	if raw := q.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 || days > 90 {
			failedValidationResponse(w, r, map[string]string{"days": "must be between 1 and 90"})
			return
		}
		opts.Days = days
	}

	times, err := h.memberService.Suggestions(r.Context(), id, withID, from, opts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"suggestions": times})
}

// Leaderboard godoc
// @Summary Общий рейтинг по победам
// @Tags members
// @Produce json
// @Success 200 {array} models.StandingRow
// @Router /leaderboard [get]
func (h *MemberHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.memberService.Leaderboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"leaderboard": rows})
}
