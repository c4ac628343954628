package waitlist

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCreated  = "created"
	outcomeUpdated  = "updated"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"

	resultSent    = "sent"
	resultFailed  = "failed"
	resultDropped = "dropped"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	signups        *prometheus.CounterVec
	notifications  *prometheus.CounterVec
	entries        prometheus.Gauge
	earlyAdopters  prometheus.Gauge
	remainingSpots prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Signup attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waitlist_notifications_total",
			Help: "Confirmation emails by result.",
		}, []string{"result"}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "waitlist_entries",
			Help: "Entries on the waitlist.",
		}),
		earlyAdopters: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "waitlist_early_adopters",
			Help: "Entries flagged as early adopters.",
		}),
		remainingSpots: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "waitlist_remaining_spots",
			Help: "Early adopter spots still open.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.signups, m.notifications, m.entries, m.earlyAdopters, m.remainingSpots)
	}
	return m
}

func (m *Metrics) signup(outcome string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) notification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) observeStats(stats *StatsResponse) {
	if m == nil || stats == nil {
		return
	}
	m.entries.Set(float64(stats.Total))
	m.earlyAdopters.Set(float64(stats.EarlyAdopters))
	m.remainingSpots.Set(float64(stats.RemainingSpots))
}
