package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
	"millionaire-service/internal/metrics"
)

// SessionRepository persists games and tracks each player's active game.
// Implementations must store copies: a session handed to Save may be
// mutated afterwards by the caller.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (*game.Session, error)
	Save(ctx context.Context, session *game.Session) error
	// ActiveSessionID returns "" when the player has no game in progress.
	ActiveSessionID(ctx context.Context, playerID string) (string, error)
}

// QuestionBank supplies the questions for a new game, one per level in order.
type QuestionBank interface {
	SampleGame(ctx context.Context) ([]domain.Question, error)
}

// Ledger keeps player balances.
type Ledger interface {
	Credit(ctx context.Context, playerID string, amount int) error
	Balance(ctx context.Context, playerID string) (int, error)
}

// GameService contains the game use cases.
type GameService struct {
	sessions SessionRepository
	bank     QuestionBank
	ledger   Ledger

	ladder  game.Ladder
	helps   *game.HelpEngine
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string

	rndMu sync.Mutex
	rnd   *rand.Rand

	locks *keyedMutex
}

// Option customizes a GameService.
type Option func(*GameService)

// WithLadder sets the prize ladder.
func WithLadder(l game.Ladder) Option {
	return func(s *GameService) { s.ladder = l }
}

// WithHelpEngine sets the engine that produces help content.
func WithHelpEngine(e *game.HelpEngine) Option {
	return func(s *GameService) { s.helps = e }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *GameService) { s.log = l }
}

// WithMetrics enables game counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *GameService) { s.metrics = m }
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

// WithRandSource seeds the option shuffling of new games.
func WithRandSource(src rand.Source) Option {
	return func(s *GameService) { s.rnd = rand.New(src) }
}

// WithIDGenerator replaces uuid session IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *GameService) { s.newID = newID }
}

// NewGameService wires the stores; defaults are the built-in ladder, a
// time-seeded help engine, uuid IDs and a no-op logger.
func NewGameService(sessions SessionRepository, bank QuestionBank, ledger Ledger, opts ...Option) *GameService {
	s := &GameService{
		sessions: sessions,
		bank:     bank,
		ledger:   ledger,
		ladder:   game.DefaultLadder(),
		log:      zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
		locks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.helps == nil {
		s.helps = game.NewHelpEngine(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Ladder returns the prize ladder games are paid from.
func (s *GameService) Ladder() game.Ladder {
	return s.ladder
}

// StartGame creates a new game for the player. A player with a game in
// progress gets an *domain.ActiveGameError and no new game is created.
func (s *GameService) StartGame(ctx context.Context, playerID string) (*game.Session, error) {
	unlock := s.locks.Lock("player:" + playerID)
	defer unlock()

	activeID, err := s.sessions.ActiveSessionID(ctx, playerID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if activeID != "" {
		active, err := s.sessions.Load(ctx, activeID)
		switch {
		case err == nil && !active.Finished():
			return nil, &domain.ActiveGameError{SessionID: activeID}
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, persistenceError(err)
		}
	}

	questions, err := s.bank.SampleGame(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, persistenceError(err)
	}

	s.rndMu.Lock()
	session, err := game.NewSession(s.newID(), playerID, questions, s.rnd, s.now())
	s.rndMu.Unlock()
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, persistenceError(err)
	}
	s.metrics.GameStarted()
	s.log.Info("game started", zap.String("session", session.ID), zap.String("player", playerID))
	return session, nil
}

// Answer submits a letter for the current question.
func (s *GameService) Answer(ctx context.Context, sessionID, playerID, letter string) (*game.Session, error) {
	return s.mutate(ctx, sessionID, playerID, func(session *game.Session) error {
		_, err := session.Answer(letter, s.ladder, s.now())
		return err
	})
}

// RequestHelp spends a help on the current question.
func (s *GameService) RequestHelp(ctx context.Context, sessionID, playerID string, kind domain.HelpKind) (*game.Session, error) {
	session, err := s.mutate(ctx, sessionID, playerID, func(session *game.Session) error {
		return session.UseHelp(kind, s.helps)
	})
	if err == nil {
		s.metrics.HelpUsed(kind)
	}
	return session, err
}

// CashOut ends the game with the prize of the level reached.
func (s *GameService) CashOut(ctx context.Context, sessionID, playerID string) (*game.Session, error) {
	return s.mutate(ctx, sessionID, playerID, func(session *game.Session) error {
		return session.CashOut(s.ladder, s.now())
	})
}

// Get returns a player's game.
func (s *GameService) Get(ctx context.Context, sessionID, playerID string) (*game.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PlayerID != playerID {
		return nil, domain.ErrForbidden
	}
	return session, nil
}

// ActiveGame returns the player's game in progress.
func (s *GameService) ActiveGame(ctx context.Context, playerID string) (*game.Session, error) {
	activeID, err := s.sessions.ActiveSessionID(ctx, playerID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if activeID == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := s.load(ctx, activeID)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Balance returns the player's accumulated winnings.
func (s *GameService) Balance(ctx context.Context, playerID string) (int, error) {
	balance, err := s.ledger.Balance(ctx, playerID)
	if err != nil {
		return 0, persistenceError(err)
	}
	return balance, nil
}

// mutate runs fn on a copy of the stored session under the session lock
// and persists the result. If saving or crediting the prize fails, the
// stored session is left as it was before the call.
func (s *GameService) mutate(ctx context.Context, sessionID, playerID string, fn func(*game.Session) error) (*game.Session, error) {
	// Player before session, same order as StartGame. A finishing move
	// clears the active index until the ledger is credited or the game is
	// restored, so StartGame must not run in between.
	unlockPlayer := s.locks.Lock("player:" + playerID)
	defer unlockPlayer()
	unlock := s.locks.Lock("session:" + sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PlayerID != playerID {
		return nil, domain.ErrForbidden
	}

	before := session.Clone()
	if err := fn(session); err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.log.Warn("save failed, move discarded", zap.String("session", sessionID), zap.Error(err))
		return nil, persistenceError(err)
	}

	if !before.Finished() && session.Finished() {
		if err := s.ledger.Credit(ctx, session.PlayerID, session.Prize); err != nil {
			s.log.Error("credit failed, restoring game", zap.String("session", sessionID), zap.Error(err))
			if restoreErr := s.sessions.Save(ctx, before); restoreErr != nil {
				s.log.Error("restore failed", zap.String("session", sessionID), zap.Error(restoreErr))
			}
			return nil, persistenceError(err)
		}
		s.metrics.GameFinished(session.Status, session.Prize)
		s.log.Info("game finished",
			zap.String("session", sessionID),
			zap.String("player", session.PlayerID),
			zap.String("status", string(session.Status)),
			zap.Int("level", session.CurrentLevel),
			zap.Int("prize", session.Prize),
		)
	}
	return session, nil
}

func (s *GameService) load(ctx context.Context, sessionID string) (*game.Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, persistenceError(err)
	}
	return session, nil
}

func persistenceError(err error) error {
	if errors.Is(err, domain.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}
