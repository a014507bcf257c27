package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/tennis-league/services"
)

type AdminHandler struct {
	notificationService *services.NotificationService
}

func NewAdminHandler(ns *services.NotificationService) *AdminHandler {
	return &AdminHandler{notificationService: ns}
}

// ListOutbox godoc
// @Summary Журнал уведомлений (администратор)
// @Tags admin
// @Produce json
// @Param limit query int false "Сколько последних записей, по умолчанию 100"
// @Success 200 {array} models.OutboxMessage
// @Security BearerAuth
// @Router /admin/outbox [get]
func (h *AdminHandler) ListOutbox(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			failedValidationResponse(w, r, map[string]string{"limit": "must be a non-negative integer"})
			return
		}
		limit = n
	}
	messages, err := h.notificationService.ListOutbox(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"outbox": messages})
}
