package http

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"millionaire-service/internal/app"
	"millionaire-service/internal/game"
	"millionaire-service/internal/infra/memory"
)

func newTestService() *app.GameService {
	bank := memory.NewQuestionBankWithRand(memory.NewStaticQuestionLoader(memory.SampleQuestions()), time.Minute, rand.NewSource(1))
	return app.NewGameService(memory.NewSessionStore(), bank, memory.NewLedger(),
		app.WithRandSource(rand.NewSource(1)),
		app.WithHelpEngine(game.NewHelpEngine(rand.NewSource(1))),
	)
}

func newTestServer(t *testing.T) (*httptest.Server, *app.GameService) {
	t.Helper()
	service := newTestService()
	mux := http.NewServeMux()
	NewGameHandler(service, zap.NewNop()).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, service
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestGameHandlerPlayAndCashOut(t *testing.T) {
	server, service := newTestServer(t)

	var started gameView
	if code := do(t, http.MethodPost, server.URL+"/games", moveRequest{PlayerID: "alice"}, &started); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if started.Question == nil || len(started.Question.Variants) != 4 || started.Question.Level != 1 {
		t.Fatalf("expected first question with four variants, got %+v", started.Question)
	}

	var conflict errorResponse
	if code := do(t, http.MethodPost, server.URL+"/games", moveRequest{PlayerID: "alice"}, &conflict); code != http.StatusConflict {
		t.Fatalf("expected 409 on second start, got %d", code)
	}
	if conflict.ActiveGameID != started.ID {
		t.Fatalf("expected active game %s, got %+v", started.ID, conflict)
	}

	var helped gameView
	if code := do(t, http.MethodPost, server.URL+"/games/"+started.ID+"/help", moveRequest{PlayerID: "alice", Kind: "audience_help"}, &helped); code != http.StatusOK {
		t.Fatalf("expected 200 for help, got %d", code)
	}
	total := 0
	for _, v := range helped.Question.Help.AudienceHelp {
		total += v
	}
	if total != 100 || !helped.HelpsUsed.AudienceHelp {
		t.Fatalf("expected audience votes summing to 100, got %+v", helped)
	}

	session, err := service.Get(context.Background(), started.ID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var answered answerResponse
	letter := string(session.CurrentQuestion().CorrectKey())
	if code := do(t, http.MethodPost, server.URL+"/games/"+started.ID+"/answer", moveRequest{PlayerID: "alice", Letter: letter}, &answered); code != http.StatusOK {
		t.Fatalf("expected 200 for answer, got %d", code)
	}
	if !answered.Correct || answered.Game.CurrentLevel != 1 || answered.Game.Question.Level != 2 {
		t.Fatalf("expected advance to level 2, got %+v", answered)
	}

	var cashed gameView
	if code := do(t, http.MethodPost, server.URL+"/games/"+started.ID+"/cashout", moveRequest{PlayerID: "alice"}, &cashed); code != http.StatusOK {
		t.Fatalf("expected 200 for cash-out, got %d", code)
	}
	if cashed.Status != "cashed_out" || cashed.Prize != 100 || cashed.Question != nil {
		t.Fatalf("unexpected cash-out view %+v", cashed)
	}

	var balance struct {
		Balance int `json:"balance"`
	}
	if code := do(t, http.MethodGet, server.URL+"/players/alice/balance", nil, &balance); code != http.StatusOK || balance.Balance != 100 {
		t.Fatalf("expected balance 100, got %d (%d)", balance.Balance, code)
	}
	if code := do(t, http.MethodGet, server.URL+"/players/alice/game", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected no active game, got %d", code)
	}
}

func TestGameHandlerRejectsBadMoves(t *testing.T) {
	server, service := newTestServer(t)

	var started gameView
	do(t, http.MethodPost, server.URL+"/games", moveRequest{PlayerID: "bob"}, &started)

	if code := do(t, http.MethodPost, server.URL+"/games/"+started.ID+"/answer", moveRequest{PlayerID: "mallory", Letter: "a"}, nil); code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign player, got %d", code)
	}
	if code := do(t, http.MethodGet, server.URL+"/games/"+started.ID+"?playerId=mallory", nil, nil); code != http.StatusForbidden {
		t.Fatalf("expected 403 on foreign read, got %d", code)
	}
	if code := do(t, http.MethodPost, server.URL+"/games/"+started.ID+"/cashout", moveRequest{PlayerID: "bob"}, nil); code != http.StatusConflict {
		t.Fatalf("expected 409 cashing out at level 0, got %d", code)
	}
	if code := do(t, http.MethodPost, server.URL+"/games/"+started.ID+"/help", moveRequest{PlayerID: "bob", Kind: "phone_mom"}, nil); code != http.StatusConflict {
		t.Fatalf("expected 409 for unknown help, got %d", code)
	}
	if code := do(t, http.MethodPost, server.URL+"/games/missing/answer", moveRequest{PlayerID: "bob", Letter: "a"}, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing game, got %d", code)
	}
	if code := do(t, http.MethodPost, server.URL+"/games", map[string]string{}, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without playerId, got %d", code)
	}

	session, _ := service.Get(context.Background(), started.ID, "bob")
	wrong := "a"
	if session.CurrentQuestion().CorrectKey() == "a" {
		wrong = "b"
	}
	var lost answerResponse
	do(t, http.MethodPost, server.URL+"/games/"+started.ID+"/answer", moveRequest{PlayerID: "bob", Letter: wrong}, &lost)
	if lost.Correct || lost.Game.Status != "lost" || lost.Game.Prize != 0 {
		t.Fatalf("expected loss with no prize, got %+v", lost)
	}
	if lost.Game.CorrectAnswer != session.CurrentQuestion().CorrectAnswer() {
		t.Fatalf("expected correct answer revealed, got %q", lost.Game.CorrectAnswer)
	}
	if code := do(t, http.MethodPost, server.URL+"/games/"+started.ID+"/answer", moveRequest{PlayerID: "bob", Letter: "a"}, nil); code != http.StatusConflict {
		t.Fatalf("expected 409 after game over, got %d", code)
	}

	var ladder ladderView
	if code := do(t, http.MethodGet, server.URL+"/ladder", nil, &ladder); code != http.StatusOK || len(ladder.Prizes) != 15 {
		t.Fatalf("expected 15 prize levels, got %+v (%d)", ladder, code)
	}
}
