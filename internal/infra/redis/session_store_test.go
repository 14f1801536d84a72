package redis

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
	"millionaire-service/internal/infra/memory"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Minute)
	session := newSession(t)

	engine := game.NewHelpEngine(rand.NewSource(4))
	for _, kind := range domain.HelpKinds {
		if err := session.UseHelp(kind, engine); err != nil {
			t.Fatalf("help %s: %v", kind, err)
		}
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("game:session:game-1") || !mr.Exists("game:player:p1:active") {
		t.Fatalf("expected session and active keys to be set")
	}

	for i := 0; i < 2; i++ {
		loaded, err := store.Load(ctx, "game-1")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !reflect.DeepEqual(session, loaded) {
			t.Fatalf("round trip mismatch:\n%+v\n%+v", session, loaded)
		}
		if err := store.Save(ctx, loaded); err != nil {
			t.Fatalf("resave: %v", err)
		}
	}

	if id, err := store.ActiveSessionID(ctx, "p1"); err != nil || id != "game-1" {
		t.Fatalf("expected active game-1, got %q (%v)", id, err)
	}
}

func TestSessionStoreClearsActiveOnFinish(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Minute)
	session := newSession(t)
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, _ = session.Answer("none", game.DefaultLadder(), time.Now().UTC())
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save finished: %v", err)
	}
	if mr.Exists("game:player:p1:active") {
		t.Fatalf("expected active key to be removed")
	}
	if id, _ := store.ActiveSessionID(ctx, "p1"); id != "" {
		t.Fatalf("expected no active game, got %q", id)
	}
	if _, err := store.Load(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionStoreReportsRedisFailure(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	store := NewSessionStore(newClient(mr), time.Minute)
	mr.Close()

	if err := store.Save(context.Background(), newSession(t)); err == nil {
		t.Fatalf("expected save error with redis down")
	}
}

func TestSessionStoreRejectsCorruptAssignment(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Minute)
	session := newSession(t)
	session.Questions[0].Assignment[domain.LetterD] = session.Questions[0].Assignment[domain.LetterA]
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Load(ctx, "game-1"); err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected corrupt session error, got %v", err)
	}
}

func newSession(t *testing.T) *game.Session {
	t.Helper()
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	session, err := game.NewSession("game-1", "p1", memory.SampleQuestions(), rand.New(rand.NewSource(1)), now)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
