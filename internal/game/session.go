package game

import (
	"fmt"
	"math/rand"
	"time"

	"millionaire-service/internal/domain"
)

// Session is one player's game: fifteen questions, the level reached, the
// helps spent and, once finished, the prize. Session is not safe for
// concurrent use; callers serialize moves per session.
type Session struct {
	ID               string          `json:"id"`
	PlayerID         string          `json:"playerId"`
	Questions        []*QuizQuestion `json:"questions"`
	CurrentLevel     int             `json:"currentLevel"`
	Status           domain.Status   `json:"status"`
	Prize            int             `json:"prize"`
	FiftyFiftyUsed   bool            `json:"fiftyFiftyUsed"`
	AudienceHelpUsed bool            `json:"audienceHelpUsed"`
	FriendCallUsed   bool            `json:"friendCallUsed"`
	CreatedAt        time.Time       `json:"createdAt"`
	FinishedAt       *time.Time      `json:"finishedAt,omitempty"`
}

// NewSession builds a fresh game from bank questions ordered by level.
func NewSession(id, playerID string, questions []domain.Question, rnd *rand.Rand, now time.Time) (*Session, error) {
	if len(questions) != Levels {
		return nil, fmt.Errorf("a game needs %d questions, got %d", Levels, len(questions))
	}
	qs := make([]*QuizQuestion, 0, Levels)
	for _, q := range questions {
		gq, err := NewQuizQuestion(q, rnd)
		if err != nil {
			return nil, err
		}
		qs = append(qs, gq)
	}
	return &Session{
		ID:        id,
		PlayerID:  playerID,
		Questions: qs,
		Status:    domain.StatusInProgress,
		CreatedAt: now,
	}, nil
}

// Finished reports whether the game reached a terminal status.
func (s *Session) Finished() bool {
	return s.Status.Terminal()
}

// CurrentQuestion returns the question to be answered next, or nil once finished.
func (s *Session) CurrentQuestion() *QuizQuestion {
	if s.Finished() || s.CurrentLevel >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.CurrentLevel]
}

// PreviousLevel is the level before the current one, -1 at the start.
func (s *Session) PreviousLevel() int {
	return s.CurrentLevel - 1
}

// HelpUsed reports whether the given help kind was spent in this game.
func (s *Session) HelpUsed(kind domain.HelpKind) bool {
	switch kind {
	case domain.HelpFiftyFifty:
		return s.FiftyFiftyUsed
	case domain.HelpAudience:
		return s.AudienceHelpUsed
	case domain.HelpFriendCall:
		return s.FriendCallUsed
	}
	return false
}

// Answer checks letter against the current question. A correct answer
// advances the level and wins the game at the last level; a wrong one
// loses it with the fireproof prize.
func (s *Session) Answer(letter string, ladder Ladder, now time.Time) (bool, error) {
	q := s.CurrentQuestion()
	if q == nil {
		return false, domain.ErrGameFinished
	}
	if !q.IsCorrect(letter) {
		s.finish(domain.StatusLost, ladder.FireproofPrize(s.CurrentLevel), now)
		return false, nil
	}
	s.CurrentLevel++
	if s.CurrentLevel == len(s.Questions) {
		s.finish(domain.StatusWon, ladder.Prize(s.CurrentLevel), now)
	}
	return true, nil
}

// UseHelp spends a help on the current question.
func (s *Session) UseHelp(kind domain.HelpKind, engine *HelpEngine) error {
	q := s.CurrentQuestion()
	if q == nil {
		return domain.ErrGameFinished
	}
	switch kind {
	case domain.HelpFiftyFifty, domain.HelpAudience, domain.HelpFriendCall:
	default:
		return domain.ErrUnknownHelpKind
	}
	if s.HelpUsed(kind) {
		return domain.ErrHelpAlreadyUsed
	}
	if err := engine.Apply(q, kind); err != nil {
		return err
	}
	switch kind {
	case domain.HelpFiftyFifty:
		s.FiftyFiftyUsed = true
	case domain.HelpAudience:
		s.AudienceHelpUsed = true
	case domain.HelpFriendCall:
		s.FriendCallUsed = true
	}
	return nil
}

// CashOut ends the game with the prize of the level reached.
func (s *Session) CashOut(ladder Ladder, now time.Time) error {
	if s.Finished() {
		return domain.ErrGameFinished
	}
	if s.CurrentLevel == 0 {
		return domain.ErrNothingToCashOut
	}
	s.finish(domain.StatusCashedOut, ladder.Prize(s.CurrentLevel), now)
	return nil
}

func (s *Session) finish(status domain.Status, prize int, now time.Time) {
	s.Status = status
	s.Prize = prize
	finished := now
	s.FinishedAt = &finished
}

// Validate checks every question of a session read back from storage.
func (s *Session) Validate() error {
	if len(s.Questions) != Levels {
		return fmt.Errorf("session %s has %d questions", s.ID, len(s.Questions))
	}
	for _, q := range s.Questions {
		if q == nil {
			return fmt.Errorf("session %s has an empty question", s.ID)
		}
		if err := q.Validate(); err != nil {
			return fmt.Errorf("session %s: %w", s.ID, err)
		}
	}
	return nil
}

// Clone returns a deep copy, used to roll back failed saves.
func (s *Session) Clone() *Session {
	out := *s
	out.Questions = make([]*QuizQuestion, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}
