package scoring

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"weatherattest/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func choice(c store.Choice) *store.Choice { return &c }

func TestFieldScoreParOverUnder(t *testing.T) {
	require.Equal(t, 2, fieldScore(choice(store.Par), 20, 20))
	require.Equal(t, 1, fieldScore(choice(store.Over), 20, 21))
	require.Equal(t, 1, fieldScore(choice(store.Under), 20, 19))
	require.Equal(t, 0, fieldScore(choice(store.Par), 20, 21))
	require.Equal(t, 0, fieldScore(choice(store.Over), 20, 19))
	require.Equal(t, 0, fieldScore(choice(store.Under), 20, 20))
	require.Equal(t, 0, fieldScore(nil, 20, 21))
}

func TestFieldScoreRoundsObservedFloatsBeforeCompare(t *testing.T) {
	// 35.4 rounds to 35, matching a forecast of 35 exactly.
	require.Equal(t, 2, fieldScore(choice(store.Par), 35, 35.4))
}

func TestScoreSumsAcrossStationsAndFields(t *testing.T) {
	// Mirrors the S3 fixture: Forecast=(20,30,10), Observation=(20,32,9),
	// choices Par/Over/Under on temp_low/temp_high/wind_speed => score 2+1+1=4.
	par := store.Par
	over := store.Over
	under := store.Under
	observations := []store.ExpectedObservation{
		{Station: "KSAW", TempLow: &par, TempHigh: &over, WindSpeed: &under},
	}
	weather := map[string]store.WeatherSnapshot{
		"KSAW": {
			StationID:  "KSAW",
			Forecasted: store.WeatherPoint{TempLow: 20, TempHigh: 30, WindSpeed: 10},
			Observed:   &store.WeatherPoint{TempLow: 20, TempHigh: 32, WindSpeed: 9},
			RecordedAt: time.Now(),
		},
	}

	total := Score(discardLogger(), "event-1", "entry-1", observations, weather)
	require.Equal(t, 4, total)
}

func TestScoreMissingStationContributesZeroWithoutPanicking(t *testing.T) {
	par := store.Par
	observations := []store.ExpectedObservation{{Station: "UNKNOWN", TempLow: &par}}
	total := Score(discardLogger(), "event-1", "entry-1", observations, map[string]store.WeatherSnapshot{})
	require.Equal(t, 0, total)
}

func TestScoreUnobservedStationContributesZero(t *testing.T) {
	par := store.Par
	observations := []store.ExpectedObservation{{Station: "KSAW", TempLow: &par}}
	weather := map[string]store.WeatherSnapshot{
		"KSAW": {StationID: "KSAW", Forecasted: store.WeatherPoint{TempLow: 20}},
	}
	total := Score(discardLogger(), "event-1", "entry-1", observations, weather)
	require.Equal(t, 0, total)
}

func TestScoreIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	over := store.Over
	observations := []store.ExpectedObservation{{Station: "KSAW", TempHigh: &over}}
	weather := map[string]store.WeatherSnapshot{
		"KSAW": {
			StationID:  "KSAW",
			Forecasted: store.WeatherPoint{TempHigh: 25},
			Observed:   &store.WeatherPoint{TempHigh: 28},
		},
	}
	first := Score(discardLogger(), "event-1", "entry-1", observations, weather)
	second := Score(discardLogger(), "event-1", "entry-1", observations, weather)
	require.Equal(t, first, second)
}
