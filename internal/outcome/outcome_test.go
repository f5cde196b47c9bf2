package outcome

import (
	"testing"

	"github.com/stretchr/testify/require"

	"weatherattest/internal/oracleerr"
)

func TestEnumerateRejectsZeroEntries(t *testing.T) {
	_, err := Enumerate(6, 3, 0)
	require.Error(t, err)
	var oe *oracleerr.Error
	require.ErrorAs(t, err, &oe)
	require.Equal(t, oracleerr.MinOutcome, oe.Kind)
}

func TestEnumerateRejectsPlacesWinExceedingScores(t *testing.T) {
	// V=0 gives a single possible score [0]; asking for 2 places is impossible.
	_, err := Enumerate(0, 2, 3)
	require.Error(t, err)
}

func TestEnumerateProducesDistinctMessages(t *testing.T) {
	outcomes, err := Enumerate(2, 2, 3)
	require.NoError(t, err)
	require.NotEmpty(t, outcomes)

	messages := Messages(outcomes)
	seen := make(map[string]struct{}, len(messages))
	for _, m := range messages {
		require.NotEmpty(t, m, "outcome messages must not be empty")
		seen[string(m)] = struct{}{}
	}
	require.Len(t, seen, len(messages), "every encoded outcome message must be distinct")
}

func TestEnumerateSingleRankSingleEntry(t *testing.T) {
	// N=1, K=1: possible_scores=[0,1,2]; every single-score ranking ([2],
	// [1], [0]) pairs with the sole subset {0}, giving three outcomes.
	outcomes, err := Enumerate(1, 1, 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	found := map[int]bool{}
	for _, o := range outcomes {
		require.Len(t, o, 1)
		for rank, slots := range o {
			require.Equal(t, []int{0}, slots)
			found[rank] = true
		}
	}
	require.True(t, found[2])
	require.True(t, found[1])
	require.True(t, found[0])
}

func TestLocateFindsRealizedOutcome(t *testing.T) {
	outcomes, err := Enumerate(3, 2, 3)
	require.NoError(t, err)
	messages := Messages(outcomes)

	realized := outcomes[len(outcomes)/2]
	idx, err := Locate(messages, realized)
	require.NoError(t, err)
	require.Less(t, idx, len(messages))
	require.Equal(t, Encode(realized), messages[idx])
}

func TestLocateReturnsOutcomeNotFound(t *testing.T) {
	outcomes, err := Enumerate(1, 1, 1)
	require.NoError(t, err)
	messages := Messages(outcomes)

	bogus := Outcome{99: {7, 8, 9}}
	_, err = Locate(messages, bogus)
	require.Error(t, err)
	var oe *oracleerr.Error
	require.ErrorAs(t, err, &oe)
	require.Equal(t, oracleerr.OutcomeNotFound, oe.Kind)
}

func TestTiedTwoRankSplitIsLocatable(t *testing.T) {
	// One instance of the locate property over N=3 slots with K=2 winning
	// places: slots 0 and 2 tie on the top rank, slot 1 takes the second,
	// and that grouping must be present in the enumeration.
	outcomes, err := Enumerate(4, 2, 3)
	require.NoError(t, err)
	messages := Messages(outcomes)

	realized := Outcome{5: {0, 2}, 3: {1}}
	_, err = Locate(messages, realized)
	require.NoError(t, err)
}

func TestEncodeIsOrderStableAcrossRankInsertionOrder(t *testing.T) {
	a := Outcome{2: {0, 1}, 5: {2}}
	b := Outcome{5: {2}, 2: {0, 1}}
	require.Equal(t, Encode(a), Encode(b))
}
