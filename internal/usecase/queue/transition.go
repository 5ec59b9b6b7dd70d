package queue

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/walkin-queue/internal/audit"
	"github.com/BruksfildServices01/walkin-queue/internal/bus"
	domain "github.com/BruksfildServices01/walkin-queue/internal/domain/queue"
	"github.com/BruksfildServices01/walkin-queue/internal/httperr"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type TransitionInput struct {
	EntryID   string
	Action    domain.Action
	ActorID   uint
	ActorRole string
}

// ======================================================
// USE CASE
// ======================================================

type TransitionEntry struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	changes bus.Publisher
}

func NewTransitionEntry(
	repo domain.Repository,
	audit *audit.Dispatcher,
	changes bus.Publisher,
) *TransitionEntry {
	return &TransitionEntry{
		repo:    repo,
		audit:   audit,
		changes: changes,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *TransitionEntry) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.QueueEntry, error) {

	if !domain.CanAct(in.ActorRole) {
		return nil, httperr.ErrBusiness(httperr.CodeUnauthorized)
	}

	entry, err := uc.repo.GetEntry(ctx, in.EntryID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(entry.Status)
	if !domain.ValidTransition(in.Action, from) {
		return nil, httperr.ErrBusiness(httperr.CodeIllegalTransition)
	}

	to, ok := domain.NextStatus(in.Action)
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeIllegalTransition)
	}

	// Conditioned on the status we just read: if another staff client
	// got there first the update applies to zero rows and the caller
	// gets stale_entry to refresh and retry.
	updated, err := uc.repo.UpdateStatus(ctx, in.EntryID, from, to, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ActorID,
		Action:   "queue_" + string(in.Action),
		Entity:   "queue_entry",
		EntityID: updated.ID,
	})

	if err := uc.changes.Publish(ctx); err != nil {
		log.Println("queue change publish:", err)
	}

	return updated, nil
}
