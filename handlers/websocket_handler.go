package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tennis-league/realtime"
	"github.com/Dosada05/tennis-league/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub              *realtime.Hub
	challengeService *services.ChallengeService
	upgrader         websocket.Upgrader
}

// NewWebSocketHandler. allowedOrigins пустой - принимаются любые Origin.
func NewWebSocketHandler(hub *realtime.Hub, cs *services.ChallengeService, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub:              hub,
		challengeService: cs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin] || allowed["*"]
			},
		},
	}
}

// ServeChallenge подписывает на события одного вызова: /ws/challenges/{challengeID}.
// Подключаться могут участники вызова и администраторы.
func (h *WebSocketHandler) ServeChallenge(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	challengeID, err := getIDFromURL(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	challenge, err := h.challengeService.GetChallenge(r.Context(), challengeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if !challenge.IsParticipant(actor.MemberID) && !actor.IsAdmin() {
		mapServiceErrorToHTTP(w, r, services.ErrNotParticipant)
		return
	}
	h.serve(w, r, realtime.ChallengeRoom(challengeID))
}

// ServeLeague - общая лента событий лиги: /ws/league.
func (h *WebSocketHandler) ServeLeague(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, realtime.LeagueRoom)
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту
		logFor(r).Warn("websocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}
	h.hub.Register(r.Context(), realtime.NewClient(h.hub, conn, room))
}
