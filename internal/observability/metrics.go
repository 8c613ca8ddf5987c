// Package observability holds the Prometheus collectors for the service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	paymentsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainer_desk",
		Subsystem: "billing",
		Name:      "payments_recorded_total",
		Help:      "Payments recorded, labelled by the client's payment status afterwards.",
	}, []string{"status"})
	statusComputations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainer_desk",
		Subsystem: "billing",
		Name:      "status_computations_total",
		Help:      "Payment status computations, labelled by resulting status.",
	}, []string{"status"})
	availabilityDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trainer_desk",
		Subsystem: "availability",
		Name:      "computation_seconds",
		Help:      "Time spent computing the weekly free-slot view.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10),
	})
	reminderRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainer_desk",
		Subsystem: "reminders",
		Name:      "runs_total",
		Help:      "Dues reminder runs, labelled by outcome.",
	}, []string{"outcome"})
	reminderLastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trainer_desk",
		Subsystem: "reminders",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the most recent reminder run.",
	})
)

func init() {
	prometheus.MustRegister(paymentsRecorded, statusComputations, availabilityDuration, reminderRuns, reminderLastRun)
}

// RecordPayment counts a recorded payment.
func RecordPayment(status string) {
	paymentsRecorded.WithLabelValues(status).Inc()
}

// RecordStatus counts a status computation.
func RecordStatus(status string) {
	statusComputations.WithLabelValues(status).Inc()
}

// ObserveAvailability records how long a free-slot computation took.
func ObserveAvailability(d time.Duration) {
	availabilityDuration.Observe(d.Seconds())
}

// RecordReminderRun counts a reminder run and updates the watermark gauge.
func RecordReminderRun(outcome string, ts time.Time) {
	reminderRuns.WithLabelValues(outcome).Inc()
	if !ts.IsZero() {
		reminderLastRun.Set(float64(ts.Unix()))
	}
}
