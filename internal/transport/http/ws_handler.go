package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"millionaire-service/internal/app"
	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
)

// WSHandler plays games over a websocket. One connection drives one player.
type WSHandler struct {
	service  *app.GameService
	log      *zap.Logger
	upgrader websocket.Upgrader

	// per connection
	msgRate  rate.Limit
	msgBurst int
}

func NewWSHandler(service *app.GameService, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		msgRate:  rate.Limit(10),
		msgBurst: 20,
	}
}

// WithMessageRate overrides how many messages per second a connection may send.
func (h *WSHandler) WithMessageRate(perSecond float64, burst int) *WSHandler {
	h.msgRate = rate.Limit(perSecond)
	h.msgBurst = burst
	return h
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type movePayload struct {
	GameID string          `json:"gameId"`
	Letter string          `json:"letter"`
	Kind   domain.HelpKind `json:"kind"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type wsError struct {
	Code int `json:"code"`
	errorResponse
}

// ServeWS upgrades the request and handles start, resume, answer, help and
// cashout messages until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.log.With(zap.String("player_id", playerID))
	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write failed", zap.Error(err))
				for range send {
				}
				return
			}
		}
	}()

	limiter := rate.NewLimiter(h.msgRate, h.msgBurst)
	var gameID string
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if !limiter.Allow() {
			send <- outboundMessage{Type: "error", Payload: wsError{
				Code:          http.StatusTooManyRequests,
				errorResponse: errorResponse{Message: "too many messages"},
			}}
			continue
		}
		var payload movePayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- badRequest("invalid payload")
				continue
			}
		}
		if payload.GameID != "" {
			gameID = payload.GameID
		}

		var (
			session *game.Session
			err     error
		)
		switch inbound.Type {
		case "start":
			session, err = h.service.StartGame(r.Context(), playerID)
		case "resume":
			session, err = h.service.ActiveGame(r.Context(), playerID)
		case "answer":
			session, err = h.service.Answer(r.Context(), gameID, playerID, payload.Letter)
		case "help":
			session, err = h.service.RequestHelp(r.Context(), gameID, playerID, payload.Kind)
		case "cashout":
			session, err = h.service.CashOut(r.Context(), gameID, playerID)
		default:
			send <- badRequest("unsupported message type")
			continue
		}
		if err != nil {
			status, body := errorStatus(err)
			if status >= http.StatusInternalServerError {
				log.Error("ws move failed", zap.String("type", inbound.Type), zap.Error(err))
			}
			send <- outboundMessage{Type: "error", Payload: wsError{Code: status, errorResponse: body}}
			continue
		}

		gameID = session.ID
		view := newGameView(session, h.service.Ladder())
		if inbound.Type == "answer" {
			send <- outboundMessage{Type: "answerResult", Payload: answerResponse{
				Correct: session.Status != domain.StatusLost,
				Game:    view,
			}}
			continue
		}
		send <- outboundMessage{Type: "game", Payload: view}
	}

	close(send)
	<-writerDone
}

func badRequest(msg string) outboundMessage {
	return outboundMessage{Type: "error", Payload: wsError{
		Code:          http.StatusBadRequest,
		errorResponse: errorResponse{Message: msg},
	}}
}
