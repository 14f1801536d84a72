package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"millionaire-service/internal/domain"
)

// Metrics counts game events. A nil *Metrics is a no-op.
type Metrics struct {
	gamesStarted  prometheus.Counter
	gamesFinished *prometheus.CounterVec
	helpsUsed     *prometheus.CounterVec
	prizePaid     prometheus.Counter
}

// New registers the game collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "millionaire_games_started_total",
			Help: "Total number of games started",
		}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "millionaire_games_finished_total",
			Help: "Total number of finished games by outcome",
		}, []string{"status"}),
		helpsUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "millionaire_helps_used_total",
			Help: "Total number of helps used by kind",
		}, []string{"kind"}),
		prizePaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "millionaire_prize_paid_total",
			Help: "Sum of prizes credited to players",
		}),
	}
	reg.MustRegister(m.gamesStarted, m.gamesFinished, m.helpsUsed, m.prizePaid)
	return m
}

func (m *Metrics) GameStarted() {
	if m == nil {
		return
	}
	m.gamesStarted.Inc()
}

func (m *Metrics) GameFinished(status domain.Status, prize int) {
	if m == nil {
		return
	}
	m.gamesFinished.WithLabelValues(string(status)).Inc()
	m.prizePaid.Add(float64(prize))
}

func (m *Metrics) HelpUsed(kind domain.HelpKind) {
	if m == nil {
		return
	}
	m.helpsUsed.WithLabelValues(string(kind)).Inc()
}
