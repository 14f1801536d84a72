package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const balancesKey = "ledger:balances"

// Ledger keeps player balances in a single Redis hash.
type Ledger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

func (l *Ledger) Credit(ctx context.Context, playerID string, amount int) error {
	if err := l.client.HIncrBy(ctx, balancesKey, playerID, int64(amount)).Err(); err != nil {
		return fmt.Errorf("credit %s: %w", playerID, err)
	}
	return nil
}

func (l *Ledger) Balance(ctx context.Context, playerID string) (int, error) {
	balance, err := l.client.HGet(ctx, balancesKey, playerID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("balance %s: %w", playerID, err)
	}
	return balance, nil
}
