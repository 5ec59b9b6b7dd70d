package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

type Repository interface {
	// -------- Service --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Entry (admission) --------

	// CreateEntry performs the atomic check-then-insert for a join: it
	// must assign id, sequence number, joined_at and waiting status, and
	// fail with already_queued when the customer has an active entry.
	CreateEntry(
		ctx context.Context,
		entry *models.QueueEntry,
	) error

	// -------- Entry (state change) --------
	GetEntry(
		ctx context.Context,
		entryID string,
	) (*models.QueueEntry, error)

	// UpdateStatus applies a transition conditioned on the status the
	// caller read. A lost race fails with stale_entry and leaves the
	// entry untouched.
	UpdateStatus(
		ctx context.Context,
		entryID string,
		from Status,
		to Status,
		at time.Time,
	) (*models.QueueEntry, error)

	// -------- Snapshots --------
	ActiveEntries(
		ctx context.Context,
	) ([]models.QueueEntry, error)

	ActiveEntryFor(
		ctx context.Context,
		customerID uint,
	) (*models.QueueEntry, bool, error)
}
