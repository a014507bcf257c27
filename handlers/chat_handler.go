package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-league/services"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: cs}
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// ListMessages godoc
// @Summary Переписка по вызову
// @Tags chat
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Success 200 {array} models.ChatMessage
// @Security BearerAuth
// @Router /chats/{challengeID} [get]
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	challengeID, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	messages, err := h.chatService.List(r.Context(), actor, challengeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"messages": messages})
}

// SendMessage godoc
// @Summary Написать сопернику
// @Tags chat
// @Accept json
// @Produce json
// @Param challengeID path int true "Challenge ID"
// @Param body body sendMessageRequest true "Текст до 2000 символов"
// @Success 201 {object} models.ChatMessage
// @Security BearerAuth
// @Router /chats/{challengeID} [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	challengeID, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input sendMessageRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	msg, err := h.chatService.Send(r.Context(), actor, challengeID, input.Message)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"message": msg})
}
