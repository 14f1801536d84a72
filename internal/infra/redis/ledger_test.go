package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestLedgerCreditsBalance(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewLedger(newClient(mr))

	if got, err := ledger.Balance(ctx, "p1"); err != nil || got != 0 {
		t.Fatalf("expected empty balance, got %d (%v)", got, err)
	}
	if err := ledger.Credit(ctx, "p1", 200); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := ledger.Credit(ctx, "p1", 32000); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if got, _ := ledger.Balance(ctx, "p1"); got != 32200 {
		t.Fatalf("expected 32200, got %d", got)
	}
	if mr.HGet("ledger:balances", "p1") != "32200" {
		t.Fatalf("expected balance stored in hash")
	}
}
