package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type CirculationMetrics struct {
	CheckoutsTotal   *prometheus.CounterVec
	CheckinsTotal    *prometheus.CounterVec
	LostReportsTotal *prometheus.CounterVec
	OverdueLoans     prometheus.Gauge
	SweepTransitions prometheus.Counter
}

var Circulation = CirculationMetrics{
	CheckoutsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circulation_engine_checkouts_total",
			Help: "Total number of checkout attempts, by outcome.",
		},
		[]string{"status"},
	),
	CheckinsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circulation_engine_checkins_total",
			Help: "Total number of checkin attempts, by outcome.",
		},
		[]string{"status"},
	),
	LostReportsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circulation_engine_lost_reports_total",
			Help: "Total number of lost-book reports, by outcome.",
		},
		[]string{"status"},
	),
	OverdueLoans: promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "circulation_engine_overdue_loans",
			Help: "Number of loans currently marked overdue.",
		},
	),
	SweepTransitions: promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "circulation_engine_sweep_transitions_total",
			Help: "Total number of loans flipped to overdue by the status sweep.",
		},
	),
}

func RecordCheckout(status string) {
	Circulation.CheckoutsTotal.WithLabelValues(status).Inc()
}

func RecordCheckin(status string) {
	Circulation.CheckinsTotal.WithLabelValues(status).Inc()
}

func RecordLostReport(status string) {
	Circulation.LostReportsTotal.WithLabelValues(status).Inc()
}

func RecordSweep(transitioned int, overdueTotal int) {
	Circulation.SweepTransitions.Add(float64(transitioned))
	Circulation.OverdueLoans.Set(float64(overdueTotal))
}
