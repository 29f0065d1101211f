// Package observability holds the Prometheus collectors for the activity form.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	formEdits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calorie_tracker",
		Subsystem: "form",
		Name:      "edits_total",
		Help:      "Field edits applied to activity drafts, labeled by field.",
	}, []string{"field"})

	formSubmissions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "calorie_tracker",
		Subsystem: "form",
		Name:      "submissions_total",
		Help:      "Activity drafts successfully submitted to the store.",
	})

	formRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calorie_tracker",
		Subsystem: "form",
		Name:      "rejections_total",
		Help:      "Form operations rejected, labeled by reason.",
	}, []string{"reason"})

	formSyncs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calorie_tracker",
		Subsystem: "form",
		Name:      "selection_syncs_total",
		Help:      "Draft re-seeds triggered by the active selection, labeled by result (applied, stale).",
	}, []string{"result"})

	lastSubmitGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "calorie_tracker",
		Subsystem: "form",
		Name:      "last_submission_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful submission.",
	})

	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "calorie_tracker",
		Subsystem: "session",
		Name:      "active",
		Help:      "Number of owner sessions currently held in memory.",
	})
)

func init() {
	prometheus.MustRegister(formEdits, formSubmissions, formRejections, formSyncs, lastSubmitGauge, activeSessions)
}

// RecordEdit counts an accepted field edit.
func RecordEdit(field string) {
	formEdits.WithLabelValues(field).Inc()
}

// RecordSubmission counts a successful submit and moves the watermark gauge.
func RecordSubmission(ts time.Time) {
	formSubmissions.Inc()
	if !ts.IsZero() {
		lastSubmitGauge.Set(float64(ts.Unix()))
	}
}

// RecordRejection counts a rejected edit or submit.
func RecordRejection(reason string) {
	formRejections.WithLabelValues(reason).Inc()
}

// RecordSync counts a selection-triggered re-seed.
func RecordSync(applied bool) {
	result := "applied"
	if !applied {
		result = "stale"
	}
	formSyncs.WithLabelValues(result).Inc()
}

// SetActiveSessions reports the session count.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
