package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is the family of rejected operations; the game is left unchanged.
	ErrInvalidState = errors.New("invalid game state")
	// ErrNotFound is the family of missing sessions, players and bank records.
	ErrNotFound = errors.New("not found")
	// ErrPersistence wraps failures of the session store or the ledger.
	ErrPersistence = errors.New("persistence failure")
)

var (
	// ErrGameFinished is returned for any operation on a won, lost or cashed-out game.
	ErrGameFinished = fmt.Errorf("%w: game already finished", ErrInvalidState)
	// ErrHelpAlreadyUsed is returned when a help kind is requested a second time.
	ErrHelpAlreadyUsed = fmt.Errorf("%w: help already used", ErrInvalidState)
	// ErrUnknownHelpKind is returned for help kinds outside fifty_fifty, audience_help, friend_call.
	ErrUnknownHelpKind = fmt.Errorf("%w: unknown help kind", ErrInvalidState)
	// ErrNothingToCashOut is returned when cashing out before the first correct answer.
	ErrNothingToCashOut = fmt.Errorf("%w: nothing to cash out at level 0", ErrInvalidState)
	// ErrGameInProgress is returned when a player starts a second game while one is active.
	ErrGameInProgress = fmt.Errorf("%w: player already has a game in progress", ErrInvalidState)
	// ErrForbidden is returned when a player acts on someone else's game.
	ErrForbidden = fmt.Errorf("%w: game belongs to another player", ErrInvalidState)

	// ErrSessionNotFound is returned when a game session does not exist.
	ErrSessionNotFound = fmt.Errorf("%w: game session", ErrNotFound)
	// ErrQuestionNotFound indicates the bank has no question for a level.
	ErrQuestionNotFound = fmt.Errorf("%w: question", ErrNotFound)
)

// ActiveGameError rejects a new game while another one is in progress.
type ActiveGameError struct {
	SessionID string
}

func (e *ActiveGameError) Error() string {
	return fmt.Sprintf("%v (%s)", ErrGameInProgress, e.SessionID)
}

func (e *ActiveGameError) Unwrap() error {
	return ErrGameInProgress
}
