package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "oracle"

var (
	etlOnce                sync.Once
	etlCycleDuration       *prometheus.HistogramVec
	eventsSignedTotal      *prometheus.CounterVec
	outcomeNotFoundTotal   *prometheus.CounterVec
	databaseLockRetryTotal *prometheus.CounterVec
)

// ETLCycleDuration returns the histogram recording how long each ETL phase
// (weather refresh, rescore, sign) takes per run, registering it on first
// use the way the reference node's metrics singletons do.
func ETLCycleDuration() *prometheus.HistogramVec {
	etlOnce.Do(registerETLMetrics)
	return etlCycleDuration
}

// EventsSignedTotal counts signing-phase attempts per event, labeled
// "signed" when the signer returned without error (including an event it
// skipped for having no entries) and "error" otherwise.
func EventsSignedTotal() *prometheus.CounterVec {
	etlOnce.Do(registerETLMetrics)
	return eventsSignedTotal
}

// OutcomeNotFoundTotal counts attestation attempts where the winning ranking
// had no matching entry in the enumerated outcome matrix.
func OutcomeNotFoundTotal() *prometheus.CounterVec {
	etlOnce.Do(registerETLMetrics)
	return outcomeNotFoundTotal
}

// DatabaseLockRetryTotal counts retried connection attempts against the
// embedded event store, labeled by connection mode (read/write) and result:
// "retry" for each locked attempt, "exhausted" when every attempt was locked.
func DatabaseLockRetryTotal() *prometheus.CounterVec {
	etlOnce.Do(registerETLMetrics)
	return databaseLockRetryTotal
}

func registerETLMetrics() {
	etlCycleDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "etl",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of each ETL phase (weather_refresh, rescore, sign) in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"phase"})

	eventsSignedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "etl",
		Name:      "events_signed_total",
		Help:      "Number of events that completed the signing phase, labeled by outcome.",
	}, []string{"outcome"})

	outcomeNotFoundTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "attestation",
		Name:      "outcome_not_found_total",
		Help:      "Number of attestation attempts whose winning ranking had no entry in the outcome matrix.",
	}, []string{"event_id"})

	databaseLockRetryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "database_lock_retry_total",
		Help:      "Number of retried connection attempts against the embedded event store.",
	}, []string{"mode", "result"})

	prometheus.MustRegister(
		etlCycleDuration,
		eventsSignedTotal,
		outcomeNotFoundTotal,
		databaseLockRetryTotal,
	)
}
