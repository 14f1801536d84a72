package cli

import (
	"math/rand"
	"strings"
	"testing"

	"millionaire-service/internal/config"
	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
)

func TestBuildLadderDefaults(t *testing.T) {
	ladder, err := buildLadder(config.GameConfig{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ladder.Prize(15) != 1000000 || ladder.FireproofPrize(7) != 1000 {
		t.Fatalf("unexpected default ladder %v %v", ladder.Prizes(), ladder.FireproofLevels())
	}
}

func TestBuildLadderFromConfig(t *testing.T) {
	ladder, err := buildLadder(config.GameConfig{FireproofLevels: []int{2, 5, 10}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ladder.FireproofPrize(3) != 200 {
		t.Fatalf("expected level 2 guarantee of 200, got %d", ladder.FireproofPrize(3))
	}
	if _, err := buildLadder(config.GameConfig{Prizes: []int{1, 2, 3}}); err == nil {
		t.Fatalf("expected short ladder to be rejected")
	}
}

func TestHelpOptionsKeepZeroAccuracy(t *testing.T) {
	zero := 0.0
	engine := game.NewHelpEngine(rand.NewSource(3), helpOptions(config.GameConfig{FriendAccuracy: &zero})...)
	bank := domain.Question{ID: "q1", Level: 1, Text: "2 + 2?", Answers: [4]string{"4", "3", "5", "22"}, CorrectSlot: 1}
	assignment := map[domain.Letter]int{domain.LetterA: 1, domain.LetterB: 2, domain.LetterC: 3, domain.LetterD: 4}

	for i := 0; i < 50; i++ {
		q, err := game.NewQuizQuestionWithAssignment(bank, assignment)
		if err != nil {
			t.Fatalf("question: %v", err)
		}
		hint, err := engine.FriendCall(q)
		if err != nil {
			t.Fatalf("friend call: %v", err)
		}
		if strings.HasSuffix(hint, " A") {
			t.Fatalf("friend with zero accuracy named the correct letter: %q", hint)
		}
	}
	if opts := helpOptions(config.GameConfig{}); len(opts) != 0 {
		t.Fatalf("expected defaults when accuracies are unset, got %d options", len(opts))
	}
}
