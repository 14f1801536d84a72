package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"millionaire-service/internal/app"
	"millionaire-service/internal/domain"
)

// GameHandler exposes the game use cases as JSON request/response endpoints.
type GameHandler struct {
	service *app.GameService
	log     *zap.Logger
}

func NewGameHandler(service *app.GameService, log *zap.Logger) *GameHandler {
	return &GameHandler{service: service, log: log}
}

// Register mounts the routes on mux.
func (h *GameHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /games", h.start)
	mux.HandleFunc("GET /games/{id}", h.get)
	mux.HandleFunc("POST /games/{id}/answer", h.answer)
	mux.HandleFunc("POST /games/{id}/help", h.help)
	mux.HandleFunc("POST /games/{id}/cashout", h.cashOut)
	mux.HandleFunc("GET /players/{id}/game", h.activeGame)
	mux.HandleFunc("GET /players/{id}/balance", h.balance)
	mux.HandleFunc("GET /ladder", h.ladder)
}

type moveRequest struct {
	PlayerID string          `json:"playerId"`
	Letter   string          `json:"letter,omitempty"`
	Kind     domain.HelpKind `json:"kind,omitempty"`
}

type answerResponse struct {
	Correct bool     `json:"correct"`
	Game    gameView `json:"game"`
}

type errorResponse struct {
	Message      string `json:"message"`
	ActiveGameID string `json:"activeGameId,omitempty"`
}

func (h *GameHandler) start(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	session, err := h.service.StartGame(r.Context(), req.PlayerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGameView(session, h.service.Ladder()))
}

func (h *GameHandler) get(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "missing playerId"})
		return
	}
	session, err := h.service.Get(r.Context(), r.PathValue("id"), playerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(session, h.service.Ladder()))
}

func (h *GameHandler) answer(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	session, err := h.service.Answer(r.Context(), r.PathValue("id"), req.PlayerID, req.Letter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{
		Correct: session.Status != domain.StatusLost,
		Game:    newGameView(session, h.service.Ladder()),
	})
}

func (h *GameHandler) help(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	session, err := h.service.RequestHelp(r.Context(), r.PathValue("id"), req.PlayerID, req.Kind)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(session, h.service.Ladder()))
}

func (h *GameHandler) cashOut(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	session, err := h.service.CashOut(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(session, h.service.Ladder()))
}

func (h *GameHandler) activeGame(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.ActiveGame(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(session, h.service.Ladder()))
}

func (h *GameHandler) balance(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("id")
	balance, err := h.service.Balance(r.Context(), playerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playerId": playerID, "balance": balance})
}

func (h *GameHandler) ladder(w http.ResponseWriter, _ *http.Request) {
	l := h.service.Ladder()
	writeJSON(w, http.StatusOK, ladderView{Prizes: l.Prizes(), FireproofLevels: l.FireproofLevels()})
}

func (h *GameHandler) decode(w http.ResponseWriter, r *http.Request) (moveRequest, bool) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return req, false
	}
	if req.PlayerID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "missing playerId"})
		return req, false
	}
	return req, true
}

func (h *GameHandler) writeError(w http.ResponseWriter, err error) {
	status, body := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, body)
}

// errorStatus maps the domain error families to HTTP status codes.
func errorStatus(err error) (int, errorResponse) {
	body := errorResponse{Message: err.Error()}
	var active *domain.ActiveGameError
	switch {
	case errors.As(err, &active):
		body.ActiveGameID = active.SessionID
		return http.StatusConflict, body
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, body
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, body
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, body
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusServiceUnavailable, body
	}
	return http.StatusInternalServerError, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
