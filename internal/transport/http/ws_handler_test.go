package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestWebSocketGameFlow(t *testing.T) {
	service := newTestService()
	wsHandler := NewWSHandler(service, zap.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dial(t, server, "alice")
	defer conn.Close()

	send(t, conn, map[string]any{"type": "start"})
	typ, payload := readNext(conn, t, "game")
	gameID, _ := payload["id"].(string)
	if typ != "game" || gameID == "" {
		t.Fatalf("expected game with id, got %s %v", typ, payload)
	}
	if _, ok := payload["question"]; !ok {
		t.Fatalf("expected open question in %v", payload)
	}

	send(t, conn, map[string]any{"type": "help", "payload": map[string]any{"kind": "fifty_fifty"}})
	_, payload = readNext(conn, t, "game")
	question := payload["question"].(map[string]any)
	if variants := question["variants"].(map[string]any); len(variants) != 2 {
		t.Fatalf("expected two variants after fifty-fifty, got %v", variants)
	}

	send(t, conn, map[string]any{"type": "help", "payload": map[string]any{"kind": "fifty_fifty"}})
	_, payload = readNext(conn, t, "error")
	if code, _ := payload["code"].(float64); code != http.StatusConflict {
		t.Fatalf("expected 409 for reused help, got %v", payload)
	}

	session, err := service.Get(context.Background(), gameID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	letter := string(session.CurrentQuestion().CorrectKey())
	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"gameId": gameID, "letter": letter}})
	_, payload = readNext(conn, t, "answerResult")
	if correct, _ := payload["correct"].(bool); !correct {
		t.Fatalf("expected correct answer, got %v", payload)
	}

	send(t, conn, map[string]any{"type": "cashout"})
	_, payload = readNext(conn, t, "game")
	if payload["status"] != "cashed_out" || payload["prize"] != float64(100) {
		t.Fatalf("expected cash-out of 100, got %v", payload)
	}
}

func TestWebSocketResumeAndErrors(t *testing.T) {
	service := newTestService()
	wsHandler := NewWSHandler(service, zap.NewNop())
	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	first := dial(t, server, "bob")
	send(t, first, map[string]any{"type": "start"})
	_, payload := readNext(first, t, "game")
	gameID := payload["id"].(string)
	first.Close()

	conn := dial(t, server, "bob")
	defer conn.Close()

	send(t, conn, map[string]any{"type": "start"})
	_, payload = readNext(conn, t, "error")
	if payload["activeGameId"] != gameID {
		t.Fatalf("expected active game id %s, got %v", gameID, payload)
	}

	send(t, conn, map[string]any{"type": "resume"})
	_, payload = readNext(conn, t, "game")
	if payload["id"] != gameID {
		t.Fatalf("expected resumed game %s, got %v", gameID, payload)
	}

	send(t, conn, map[string]any{"type": "dance"})
	_, payload = readNext(conn, t, "error")
	if code, _ := payload["code"].(float64); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %v", payload)
	}

	if _, resp, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):], nil); err == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without playerId, got %v", err)
	}
}

func TestWebSocketThrottlesMessages(t *testing.T) {
	wsHandler := NewWSHandler(newTestService(), zap.NewNop()).WithMessageRate(0.001, 1)
	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	conn := dial(t, server, "carol")
	defer conn.Close()

	send(t, conn, map[string]any{"type": "start"})
	readNext(conn, t, "game")
	send(t, conn, map[string]any{"type": "resume"})
	_, payload := readNext(conn, t, "error")
	if code, _ := payload["code"].(float64); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %v", payload)
	}
}

func dial(t *testing.T, server *httptest.Server, playerID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?playerId=" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}
