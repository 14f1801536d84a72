package memory

import (
	"context"
	"sync"
)

// Ledger keeps player balances in process.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]int)}
}

func (l *Ledger) Credit(_ context.Context, playerID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[playerID] += amount
	return nil
}

func (l *Ledger) Balance(_ context.Context, playerID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[playerID], nil
}
