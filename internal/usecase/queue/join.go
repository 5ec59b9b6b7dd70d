package queue

import (
	"context"
	"log"

	"github.com/BruksfildServices01/walkin-queue/internal/audit"
	"github.com/BruksfildServices01/walkin-queue/internal/bus"
	domain "github.com/BruksfildServices01/walkin-queue/internal/domain/queue"
	"github.com/BruksfildServices01/walkin-queue/internal/httperr"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type JoinInput struct {
	CustomerID    uint
	CustomerName  string
	ContactHandle string

	ServiceID uint
}

// ======================================================
// USE CASE
// ======================================================

type JoinQueue struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	changes bus.Publisher
}

func NewJoinQueue(
	repo domain.Repository,
	audit *audit.Dispatcher,
	changes bus.Publisher,
) *JoinQueue {
	return &JoinQueue{
		repo:    repo,
		audit:   audit,
		changes: changes,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *JoinQueue) Execute(
	ctx context.Context,
	in JoinInput,
) (*models.QueueEntry, error) {

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	// Deactivated services stay listed on old entries but accept no joins.
	if !svc.Active {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}

	// Service name and duration are frozen onto the entry here so that
	// later edits don't retroactively change entries already in line.
	entry := &models.QueueEntry{
		CustomerID:         in.CustomerID,
		CustomerName:       in.CustomerName,
		ContactHandle:      in.ContactHandle,
		ServiceID:          svc.ID,
		ServiceName:        svc.Name,
		ServiceDurationMin: svc.DurationMin,
	}

	// The repository does the existence check and the insert as one
	// atomic operation; a double-submit loses with already_queued.
	if err := uc.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.CustomerID,
		Action:   "queue_joined",
		Entity:   "queue_entry",
		EntityID: entry.ID,
	})

	if err := uc.changes.Publish(ctx); err != nil {
		log.Println("queue change publish:", err)
	}

	return entry, nil
}
