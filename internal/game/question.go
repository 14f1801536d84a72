package game

import (
	"fmt"
	"math/rand"

	"millionaire-service/internal/domain"
)

// QuizQuestion binds the four option letters of one game level to the
// answer slots of a bank question. Text, level and answers are copied from
// the bank record when the game is created.
type QuizQuestion struct {
	QuestionID  string                   `json:"questionId"`
	Level       int                      `json:"level"`
	Text        string                   `json:"text"`
	Answers     [domain.SlotCount]string `json:"answers"`
	CorrectSlot int                      `json:"correctSlot"`
	Assignment  map[domain.Letter]int    `json:"assignment"`
	Help        domain.HelpState         `json:"help"`
}

// NewQuizQuestion shuffles the bank question's slots across a..d using rnd.
func NewQuizQuestion(q domain.Question, rnd *rand.Rand) (*QuizQuestion, error) {
	perm := rnd.Perm(domain.SlotCount)
	assignment := make(map[domain.Letter]int, domain.SlotCount)
	for i, letter := range domain.Letters {
		assignment[letter] = perm[i] + 1
	}
	return NewQuizQuestionWithAssignment(q, assignment)
}

// NewQuizQuestionWithAssignment builds a question with a fixed letter to slot mapping.
func NewQuizQuestionWithAssignment(q domain.Question, assignment map[domain.Letter]int) (*QuizQuestion, error) {
	if err := validateAssignment(assignment); err != nil {
		return nil, err
	}
	slot := q.ResolvedCorrectSlot()
	if slot < 1 || slot > domain.SlotCount {
		return nil, fmt.Errorf("question %s: correct slot %d out of range", q.ID, slot)
	}
	copied := make(map[domain.Letter]int, domain.SlotCount)
	for k, v := range assignment {
		copied[k] = v
	}
	return &QuizQuestion{
		QuestionID:  q.ID,
		Level:       q.Level,
		Text:        q.Text,
		Answers:     q.Answers,
		CorrectSlot: slot,
		Assignment:  copied,
	}, nil
}

func validateAssignment(assignment map[domain.Letter]int) error {
	if len(assignment) != domain.SlotCount {
		return fmt.Errorf("assignment must map exactly %d letters, got %d", domain.SlotCount, len(assignment))
	}
	seen := make(map[int]bool, domain.SlotCount)
	for _, letter := range domain.Letters {
		slot, ok := assignment[letter]
		if !ok {
			return fmt.Errorf("assignment is missing letter %q", letter)
		}
		if slot < 1 || slot > domain.SlotCount {
			return fmt.Errorf("letter %q mapped to slot %d", letter, slot)
		}
		if seen[slot] {
			return fmt.Errorf("slot %d assigned twice", slot)
		}
		seen[slot] = true
	}
	return nil
}

// Validate reports a question whose assignment is not a bijection onto the
// slots or whose correct slot is out of range.
func (q *QuizQuestion) Validate() error {
	if err := validateAssignment(q.Assignment); err != nil {
		return fmt.Errorf("question %s: %w", q.QuestionID, err)
	}
	if q.CorrectSlot < 1 || q.CorrectSlot > domain.SlotCount {
		return fmt.Errorf("question %s: correct slot %d out of range", q.QuestionID, q.CorrectSlot)
	}
	return nil
}

// Variants maps each letter to the answer text displayed under it.
func (q *QuizQuestion) Variants() map[domain.Letter]string {
	out := make(map[domain.Letter]string, domain.SlotCount)
	for _, letter := range domain.Letters {
		out[letter] = q.answerAt(q.Assignment[letter])
	}
	return out
}

func (q *QuizQuestion) answerAt(slot int) string {
	if slot < 1 || slot > domain.SlotCount {
		return ""
	}
	return q.Answers[slot-1]
}

// CorrectKey returns the letter whose slot is the correct one.
func (q *QuizQuestion) CorrectKey() domain.Letter {
	for _, letter := range domain.Letters {
		if q.Assignment[letter] == q.CorrectSlot {
			return letter
		}
	}
	return ""
}

// CorrectAnswer returns the text of the correct option.
func (q *QuizQuestion) CorrectAnswer() string {
	return q.answerAt(q.CorrectSlot)
}

// IsCorrect compares raw player input against the correct letter, ignoring case.
// Anything that is not a letter a..d is simply wrong.
func (q *QuizQuestion) IsCorrect(letter string) bool {
	l, ok := domain.ParseLetter(letter)
	return ok && l == q.CorrectKey()
}

// KeysInPlay returns the letters still visible: the fifty-fifty pair once
// applied, otherwise all four.
func (q *QuizQuestion) KeysInPlay() []domain.Letter {
	if len(q.Help.FiftyFifty) > 0 {
		return append([]domain.Letter(nil), q.Help.FiftyFifty...)
	}
	return append([]domain.Letter(nil), domain.Letters...)
}

// Clone returns a deep copy.
func (q *QuizQuestion) Clone() *QuizQuestion {
	out := *q
	out.Assignment = make(map[domain.Letter]int, len(q.Assignment))
	for k, v := range q.Assignment {
		out.Assignment[k] = v
	}
	out.Help = q.Help.Clone()
	return &out
}
