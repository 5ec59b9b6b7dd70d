package queue

import (
	"sort"

	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

// The estimator is a pure function of the latest snapshot of the active
// set. Every view is recomputed whole from the snapshot; nothing here is
// patched incrementally, so duplicate or out-of-order snapshot delivery
// cannot corrupt a derived view.

// Rank returns a sorted copy of the active entries: joined_at ascending,
// entry id breaking ties, giving a total order.
func Rank(entries []models.QueueEntry) []models.QueueEntry {
	ranked := make([]models.QueueEntry, 0, len(entries))
	for _, e := range entries {
		if IsActive(Status(e.Status)) {
			ranked = append(ranked, e)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].JoinedAt.Equal(ranked[j].JoinedAt) {
			return ranked[i].JoinedAt.Before(ranked[j].JoinedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// Position returns the 1-based rank of the customer's active entry.
// The second return is false when the customer is not queued.
func Position(entries []models.QueueEntry, customerID uint) (int, bool) {
	for i, e := range Rank(entries) {
		if e.CustomerID == customerID {
			return i + 1, true
		}
	}
	return 0, false
}

// EstimatedWait sums the service durations of waiting entries strictly
// ahead of the customer. Entries already in service contribute nothing;
// their remaining time is not tracked.
func EstimatedWait(entries []models.QueueEntry, customerID uint) int {
	wait := 0
	for _, e := range Rank(entries) {
		if e.CustomerID == customerID {
			return wait
		}
		if Status(e.Status) == StatusWaiting {
			wait += e.ServiceDurationMin
		}
	}
	return 0
}

// CompletionPercent is the progress-bar value shown to a queued
// customer. Display only, never a scheduling input.
func CompletionPercent(position int) int {
	if position < 1 {
		return 0
	}
	pct := 100 - (position-1)*25
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
