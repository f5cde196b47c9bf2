package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"weatherattest/internal/store"
)

func TestShouldRescoreOnlyDuringRunningOrCompleted(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	live := store.Event{ObservationDate: now.Add(24 * time.Hour)}
	require.False(t, shouldRescore(live, now))

	running := store.Event{ObservationDate: now.Add(-1 * time.Hour)}
	require.True(t, shouldRescore(running, now))

	completed := store.Event{ObservationDate: now.Add(-25 * time.Hour)}
	require.True(t, shouldRescore(completed, now))

	signed := store.Event{ObservationDate: now.Add(-25 * time.Hour), AttestationSignature: []byte{0x01}}
	require.False(t, shouldRescore(signed, now))
}

func TestShouldSignOnlyWhenCompleted(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	running := store.Event{ObservationDate: now.Add(-1 * time.Hour)}
	require.False(t, shouldSign(running, now))

	completed := store.Event{ObservationDate: now.Add(-25 * time.Hour)}
	require.True(t, shouldSign(completed, now))

	signed := store.Event{ObservationDate: now.Add(-25 * time.Hour), AttestationSignature: []byte{0x01}}
	require.False(t, shouldSign(signed, now))
}
