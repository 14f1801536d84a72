package domain

import "strings"

// Letter identifies a displayed answer position.
type Letter string

const (
	LetterA Letter = "a"
	LetterB Letter = "b"
	LetterC Letter = "c"
	LetterD Letter = "d"
)

// Letters lists the option letters in display order.
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD}

// Upper returns the letter as shown to players.
func (l Letter) Upper() string {
	return strings.ToUpper(string(l))
}

// ParseLetter normalizes external input; ok is false for anything but a..d.
func ParseLetter(raw string) (Letter, bool) {
	l := Letter(strings.ToLower(raw))
	for _, known := range Letters {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// HelpKind names one of the three one-time helps.
type HelpKind string

const (
	HelpFiftyFifty HelpKind = "fifty_fifty"
	HelpAudience   HelpKind = "audience_help"
	HelpFriendCall HelpKind = "friend_call"
)

// HelpKinds lists every help kind.
var HelpKinds = []HelpKind{HelpFiftyFifty, HelpAudience, HelpFriendCall}

// Status is the lifecycle state of a game.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
	StatusCashedOut  Status = "cashed_out"
)

// Terminal reports whether no further moves are allowed.
func (s Status) Terminal() bool {
	return s != StatusInProgress
}

// SlotCount is the number of answer texts stored on a bank question.
const SlotCount = 4

// DefaultCorrectSlot is the question bank convention for records that do not name their correct slot.
const DefaultCorrectSlot = 1

// Question is a question bank record.
type Question struct {
	ID          string            `json:"id"`
	Level       int               `json:"level"`
	Text        string            `json:"text"`
	Answers     [SlotCount]string `json:"answers"`
	CorrectSlot int               `json:"correctSlot"` // 1..4, 0 means DefaultCorrectSlot
}

// ResolvedCorrectSlot returns CorrectSlot with the bank default applied.
func (q Question) ResolvedCorrectSlot() int {
	if q.CorrectSlot == 0 {
		return DefaultCorrectSlot
	}
	return q.CorrectSlot
}

// HelpState holds the content of helps applied to one question.
// Each field is set at most once.
type HelpState struct {
	FiftyFifty   []Letter       `json:"fiftyFifty,omitempty"`
	AudienceHelp map[Letter]int `json:"audienceHelp,omitempty"`
	FriendCall   string         `json:"friendCall,omitempty"`
}

// Has reports whether the given help has been applied.
func (h HelpState) Has(kind HelpKind) bool {
	switch kind {
	case HelpFiftyFifty:
		return len(h.FiftyFifty) > 0
	case HelpAudience:
		return len(h.AudienceHelp) > 0
	case HelpFriendCall:
		return h.FriendCall != ""
	}
	return false
}

// Clone returns a deep copy.
func (h HelpState) Clone() HelpState {
	out := HelpState{FriendCall: h.FriendCall}
	if h.FiftyFifty != nil {
		out.FiftyFifty = append([]Letter(nil), h.FiftyFifty...)
	}
	if h.AudienceHelp != nil {
		out.AudienceHelp = make(map[Letter]int, len(h.AudienceHelp))
		for k, v := range h.AudienceHelp {
			out.AudienceHelp[k] = v
		}
	}
	return out
}
