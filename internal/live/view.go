package live

import (
	domain "github.com/BruksfildServices01/walkin-queue/internal/domain/queue"
	"github.com/BruksfildServices01/walkin-queue/internal/dto"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

// CustomerView derives a single customer's status page from a snapshot
// of the active set.
func CustomerView(entries []models.QueueEntry, customerID uint) dto.CustomerQueueView {
	position, ok := domain.Position(entries, customerID)
	if !ok {
		return dto.CustomerQueueView{Queued: false}
	}

	var entry models.QueueEntry
	for _, e := range entries {
		if e.CustomerID == customerID && domain.IsActive(domain.Status(e.Status)) {
			entry = e
			break
		}
	}

	return dto.CustomerQueueView{
		Queued:               true,
		EntryID:              entry.ID,
		Status:               entry.Status,
		ServiceName:          entry.ServiceName,
		SequenceNumber:       entry.SequenceNumber,
		Position:             position,
		EstimatedWaitMinutes: domain.EstimatedWait(entries, customerID),
		CompletionPercent:    domain.CompletionPercent(position),
	}
}

// StaffTable derives the full rank-ordered board from a snapshot.
func StaffTable(entries []models.QueueEntry) []dto.StaffQueueRow {
	ranked := domain.Rank(entries)
	rows := make([]dto.StaffQueueRow, 0, len(ranked))
	for i, e := range ranked {
		rows = append(rows, dto.StaffQueueRow{
			EntryID:            e.ID,
			Position:           i + 1,
			SequenceNumber:     e.SequenceNumber,
			CustomerName:       e.CustomerName,
			ContactHandle:      e.ContactHandle,
			ServiceName:        e.ServiceName,
			ServiceDurationMin: e.ServiceDurationMin,
			Status:             e.Status,
			JoinedAt:           e.JoinedAt,
		})
	}
	return rows
}
