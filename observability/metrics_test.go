package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsRegisterOnceAndReturnSameCollectors(t *testing.T) {
	duration := ETLCycleDuration()
	signed := EventsSignedTotal()
	outcomeNotFound := OutcomeNotFoundTotal()
	lockRetry := DatabaseLockRetryTotal()

	require.NotNil(t, duration)
	require.NotNil(t, signed)
	require.NotNil(t, outcomeNotFound)
	require.NotNil(t, lockRetry)

	// Repeated calls must return the same registered collector, not panic
	// on double-registration.
	require.Same(t, duration, ETLCycleDuration())
	require.Same(t, signed, EventsSignedTotal())
}

func TestMetricsAcceptLabelledObservations(t *testing.T) {
	require.NotPanics(t, func() {
		ETLCycleDuration().WithLabelValues("weather_refresh").Observe(0.25)
		EventsSignedTotal().WithLabelValues("signed").Inc()
		OutcomeNotFoundTotal().WithLabelValues("event-1").Inc()
		DatabaseLockRetryTotal().WithLabelValues("write", "retried").Inc()
	})
}
