package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Ledger keeps player balances in the player_balances table.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

func (l *Ledger) Credit(ctx context.Context, playerID string, amount int) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO player_balances (player_id, balance, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (player_id) DO UPDATE
		SET balance = player_balances.balance + EXCLUDED.balance, updated_at = now()`,
		playerID, amount)
	if err != nil {
		return fmt.Errorf("credit %s: %w", playerID, err)
	}
	return nil
}

func (l *Ledger) Balance(ctx context.Context, playerID string) (int, error) {
	var balance int64
	err := l.pool.QueryRow(ctx, `SELECT balance FROM player_balances WHERE player_id = $1`, playerID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("balance %s: %w", playerID, err)
	}
	return int(balance), nil
}
