// Package outcome enumerates every possible winning ranking of a
// multi-entry scoring competition ahead of time, so the oracle can commit
// to the full outcome space at event-creation and later locate whichever
// ranking actually materializes.
package outcome

import (
	"bytes"
	"encoding/binary"
	"sort"

	"weatherattest/internal/oracleerr"
)

// Outcome maps a rank (an integer score, descending across ranks) to the
// ordered set of entry slot indices that achieved it.
type Outcome map[int][]int

// Enumerate produces the ordered list of every possible outcome for V
// predictions per entry, K winning places, and N entry slots:
// possible_scores = [0..2V], rankings are strictly decreasing subsequences
// of possible_scores of length 1..K, and each ranking is paired with every
// way to partition a nonempty subset of entry slots across its ranks.
func Enumerate(valuesPerEntry, placesWin, totalEntries int) ([]Outcome, error) {
	if totalEntries <= 0 {
		return nil, oracleerr.MinOutcomef("total_allowed_entries must be positive, got %d", totalEntries)
	}
	if placesWin <= 0 {
		return nil, oracleerr.MinOutcomef("number_of_places_win must be positive, got %d", placesWin)
	}

	possibleScores := make([]int, 2*valuesPerEntry+1)
	for i := range possibleScores {
		possibleScores[i] = i
	}
	if placesWin > len(possibleScores) {
		return nil, oracleerr.MinOutcomef("number_of_places_win %d exceeds %d possible scores", placesWin, len(possibleScores))
	}

	rankings := rankingsOf(possibleScores, placesWin)

	indices := make([]int, totalEntries)
	for i := range indices {
		indices[i] = i
	}
	subsets := nonEmptySubsets(indices)

	var outcomes []Outcome
	for _, ranking := range rankings {
		L := len(ranking)
		for _, subset := range subsets {
			if len(subset) < L {
				continue
			}
			for _, partition := range surjectivePartitions(subset, L) {
				o := make(Outcome, L)
				for i, rank := range ranking {
					o[rank] = partition[i]
				}
				outcomes = append(outcomes, o)
			}
		}
	}
	return outcomes, nil
}

// rankingsOf returns every strictly decreasing subsequence of
// possibleScores with length 1..placesWin, preserving descending order,
// grouped by ascending length and then by the order combinations are
// drawn from the descending list.
func rankingsOf(possibleScores []int, placesWin int) [][]int {
	descending := make([]int, len(possibleScores))
	copy(descending, possibleScores)
	sort.Sort(sort.Reverse(sort.IntSlice(descending)))

	var rankings [][]int
	maxLen := placesWin
	if maxLen > len(descending) {
		maxLen = len(descending)
	}
	for length := 1; length <= maxLen; length++ {
		rankings = append(rankings, combinationsPreservingOrder(descending, length)...)
	}
	return rankings
}

// combinationsPreservingOrder returns every length-sized subsequence of
// elements (chosen by index, in ascending index order so the input's
// relative order is preserved within each result).
func combinationsPreservingOrder(elements []int, length int) [][]int {
	var out [][]int
	n := len(elements)
	if length == 0 {
		return [][]int{{}}
	}
	if length > n {
		return nil
	}
	combo := make([]int, length)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == length {
			item := make([]int, length)
			copy(item, combo)
			out = append(out, item)
			return
		}
		for i := start; i <= n-(length-depth); i++ {
			combo[depth] = elements[i]
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}

// nonEmptySubsets returns every nonempty subset of elements, of every size
// 1..len(elements), preserving relative order within each subset.
func nonEmptySubsets(elements []int) [][]int {
	var out [][]int
	for size := 1; size <= len(elements); size++ {
		out = append(out, combinationsPreservingOrder(elements, size)...)
	}
	return out
}

// surjectivePartitions returns every way to assign each item in items to
// one of L labeled, ordered buckets such that every bucket receives at
// least one item. Relative order within each bucket follows items' order.
func surjectivePartitions(items []int, l int) [][][]int {
	var out [][][]int
	buckets := make([][]int, l)
	assignment := make([]int, len(items))

	var rec func(pos int)
	rec = func(pos int) {
		if pos == len(items) {
			for _, b := range buckets {
				if len(b) == 0 {
					return
				}
			}
			snapshot := make([][]int, l)
			for i, b := range buckets {
				cp := make([]int, len(b))
				copy(cp, b)
				snapshot[i] = cp
			}
			out = append(out, snapshot)
			return
		}
		for bucket := 0; bucket < l; bucket++ {
			buckets[bucket] = append(buckets[bucket], items[pos])
			assignment[pos] = bucket
			rec(pos + 1)
			buckets[bucket] = buckets[bucket][:len(buckets[bucket])-1]
		}
	}
	rec(0)
	return out
}

// Encode serializes an outcome into a stable, collision-free byte string:
// for each rank in ascending numeric key order, the big-endian 8-byte rank,
// the big-endian 8-byte count of its entry indices, and the big-endian
// 8-byte encoding of every entry index in that rank's list, concatenated
// across ranks.
func Encode(o Outcome) []byte {
	ranks := make([]int, 0, len(o))
	for rank := range o {
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)

	var buf bytes.Buffer
	for _, rank := range ranks {
		var header [16]byte
		binary.BigEndian.PutUint64(header[:8], uint64(rank))
		binary.BigEndian.PutUint64(header[8:], uint64(len(o[rank])))
		buf.Write(header[:])
		for _, idx := range o[rank] {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(idx))
			buf.Write(b[:])
		}
	}
	return buf.Bytes()
}

// Messages encodes every outcome in order, the form persisted in an
// event's announcement.
func Messages(outcomes []Outcome) [][]byte {
	out := make([][]byte, len(outcomes))
	for i, o := range outcomes {
		out[i] = Encode(o)
	}
	return out
}

// Locate finds the index of the encoded realized outcome within an
// announcement's outcome messages.
func Locate(messages [][]byte, realized Outcome) (int, error) {
	encoded := Encode(realized)
	for i, m := range messages {
		if bytes.Equal(m, encoded) {
			return i, nil
		}
	}
	return -1, oracleerr.OutcomeNotFoundf("realized outcome not present in announcement's outcome messages")
}
