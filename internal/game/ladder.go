package game

import (
	"errors"
	"fmt"
	"sort"
)

// Levels is the number of questions in one game.
const Levels = 15

// DefaultPrizes is the built-in money ladder, level 1 first.
var DefaultPrizes = []int{
	100, 200, 300, 500, 1000,
	2000, 4000, 8000, 16000, 32000,
	64000, 125000, 250000, 500000, 1000000,
}

// DefaultFireproofLevels are the guaranteed levels of the built-in ladder.
var DefaultFireproofLevels = []int{5, 10}

// Ladder maps levels 1..Levels to prize amounts and marks the fireproof ones.
type Ladder struct {
	prizes    []int
	fireproof []int // ascending
}

// NewLadder validates a ladder: exactly Levels non-negative, non-decreasing
// amounts and fireproof levels within 1..Levels.
func NewLadder(prizes []int, fireproofLevels []int) (Ladder, error) {
	if len(prizes) != Levels {
		return Ladder{}, fmt.Errorf("ladder needs %d prizes, got %d", Levels, len(prizes))
	}
	for i, p := range prizes {
		if p < 0 {
			return Ladder{}, fmt.Errorf("prize for level %d is negative", i+1)
		}
		if i > 0 && p < prizes[i-1] {
			return Ladder{}, fmt.Errorf("prize for level %d is below level %d", i+1, i)
		}
	}
	fireproof := append([]int(nil), fireproofLevels...)
	sort.Ints(fireproof)
	for _, level := range fireproof {
		if level < 1 || level > Levels {
			return Ladder{}, errors.New("fireproof level out of range")
		}
	}
	return Ladder{prizes: append([]int(nil), prizes...), fireproof: fireproof}, nil
}

// DefaultLadder returns the built-in ladder.
func DefaultLadder() Ladder {
	l, err := NewLadder(DefaultPrizes, DefaultFireproofLevels)
	if err != nil {
		panic(err)
	}
	return l
}

// Prize returns the amount for a level; level 0 pays nothing.
func (l Ladder) Prize(level int) int {
	if level < 1 || level > len(l.prizes) {
		return 0
	}
	return l.prizes[level-1]
}

// FireproofPrize returns the amount of the highest fireproof level at or below level.
func (l Ladder) FireproofPrize(level int) int {
	best := 0
	for _, f := range l.fireproof {
		if f > level {
			break
		}
		best = l.Prize(f)
	}
	return best
}

// IsFireproof reports whether a level is guaranteed.
func (l Ladder) IsFireproof(level int) bool {
	for _, f := range l.fireproof {
		if f == level {
			return true
		}
	}
	return false
}

// Prizes returns a copy of the amounts, level 1 first.
func (l Ladder) Prizes() []int {
	return append([]int(nil), l.prizes...)
}

// FireproofLevels returns a copy of the guaranteed levels.
func (l Ladder) FireproofLevels() []int {
	return append([]int(nil), l.fireproof...)
}
