package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"millionaire-service/internal/domain"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.GameStarted()
	m.GameFinished(domain.StatusCashedOut, 200)
	m.GameFinished(domain.StatusLost, 0)
	m.HelpUsed(domain.HelpFiftyFifty)

	if got := testutil.ToFloat64(m.gamesStarted); got != 1 {
		t.Fatalf("expected 1 started, got %v", got)
	}
	if got := testutil.ToFloat64(m.gamesFinished.WithLabelValues("cashed_out")); got != 1 {
		t.Fatalf("expected 1 cashed out, got %v", got)
	}
	if got := testutil.ToFloat64(m.prizePaid); got != 200 {
		t.Fatalf("expected 200 paid, got %v", got)
	}
	if got := testutil.ToFloat64(m.helpsUsed.WithLabelValues("fifty_fifty")); got != 1 {
		t.Fatalf("expected 1 fifty-fifty, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.GameStarted()
	m.GameFinished(domain.StatusWon, 1)
	m.HelpUsed(domain.HelpAudience)
}
