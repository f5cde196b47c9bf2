// Package attestation implements the signer (C5): it determines the
// realized ranking for a completed event and releases the adaptor secret
// bound to that ranking's encoded outcome message.
package attestation

import (
	"context"
	"log/slog"
	"sort"

	"weatherattest/crypto"
	"weatherattest/internal/announcement"
	"weatherattest/internal/oracleerr"
	"weatherattest/internal/outcome"
	"weatherattest/internal/store"
	"weatherattest/observability"
)

// Signer holds the oracle's private key and the store it persists
// attestations to.
type Signer struct {
	store      *store.Store
	privateKey *crypto.PrivateKey
	logger     *slog.Logger
}

// New constructs a Signer.
func New(st *store.Store, priv *crypto.PrivateKey, logger *slog.Logger) *Signer {
	return &Signer{store: st, privateKey: priv, logger: logger}
}

// Sign attests to a single event. It is a no-op if the event already carries
// an attestation, matching C5's idempotence contract; the store's
// UpdateEventAttestation additionally guards this at the SQL layer so two
// overlapping ETL cycles can never double-release a secret.
func (s *Signer) Sign(ctx context.Context, ev store.Event, placesWin int) error {
	if len(ev.AttestationSignature) > 0 {
		return nil
	}

	entries, err := s.store.ListEntries(ctx, ev.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		s.logger.Info("attestation: no entries registered, skipping", "event_id", ev.ID)
		return nil
	}

	realized, winningScores := realizedOutcome(entries, placesWin)

	ann, err := announcement.Decode(ev.Announcement)
	if err != nil {
		return oracleerr.DataQuery(err, "attestation: decode announcement for event %s", ev.ID)
	}

	index, err := outcome.Locate(ann.OutcomeMessages, realized)
	if err != nil {
		s.logger.Error("attestation: realized outcome not found in announcement",
			"event_id", ev.ID, "winning_scores", winningScores, "expiry", ann.Expiry)
		observability.OutcomeNotFoundTotal().WithLabelValues(ev.ID).Inc()
		return err
	}

	nonce, err := crypto.NonceFromBytes(ev.Nonce)
	if err != nil {
		return oracleerr.PrivateKeyf(err, "attestation: parse nonce for event %s", ev.ID)
	}

	secret := crypto.AdaptorSecret(s.privateKey, nonce, ann.OutcomeMessages[index])

	if err := s.store.UpdateEventAttestation(ctx, ev.ID, secret); err != nil {
		return err
	}
	s.logger.Info("attestation: event signed", "event_id", ev.ID, "outcome_index", index)
	return nil
}

// realizedOutcome sorts entries descending by score, keeps the first
// placesWin unique score values, and groups each rank's entry slot indices
// (the entries' position in the caller-provided, creation-ordered slice) in
// ascending index order within the rank.
func realizedOutcome(entries []store.Entry, placesWin int) (outcome.Outcome, []int) {
	type slot struct {
		index int
		score int
	}
	slots := make([]slot, len(entries))
	for i, e := range entries {
		slots[i] = slot{index: i, score: e.Score}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].score > slots[j].score })

	result := make(outcome.Outcome)
	var winningScores []int
	seen := make(map[int]bool)
	for _, sl := range slots {
		if !seen[sl.score] {
			if len(winningScores) >= placesWin {
				break
			}
			seen[sl.score] = true
			winningScores = append(winningScores, sl.score)
		}
	}

	for _, sl := range slots {
		if !seen[sl.score] {
			continue
		}
		result[sl.score] = append(result[sl.score], sl.index)
	}
	for rank := range result {
		sort.Ints(result[rank])
	}
	return result, winningScores
}
