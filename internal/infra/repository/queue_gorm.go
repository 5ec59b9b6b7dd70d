package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/walkin-queue/internal/domain/queue"
	"github.com/BruksfildServices01/walkin-queue/internal/httperr"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

const uniqueViolation = "23505"

type QueueGormRepository struct {
	db *gorm.DB
}

func NewQueueGormRepository(db *gorm.DB) *QueueGormRepository {
	return &QueueGormRepository{db: db}
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *QueueGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
		}
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Entry (admission)
// --------------------------------------------------

func (r *QueueGormRepository) CreateEntry(
	ctx context.Context,
	entry *models.QueueEntry,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var active []models.QueueEntry
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"customer_id = ? AND status IN ?",
				entry.CustomerID, domain.ActiveStatusNames(),
			).
			Find(&active).Error; err != nil {
			return err
		}

		if len(active) > 0 {
			return httperr.ErrBusiness(httperr.CodeAlreadyQueued)
		}

		var count int64
		if err := tx.
			Model(&models.QueueEntry{}).
			Where("status IN ?", domain.ActiveStatusNames()).
			Count(&count).Error; err != nil {
			return err
		}

		entry.ID = uuid.NewString()
		entry.SequenceNumber = int(count) + 1
		entry.JoinedAt = time.Now().UTC()
		entry.Status = string(domain.StatusWaiting)

		if err := tx.Create(entry).Error; err != nil {
			// The partial unique index on active customer_id is the
			// backstop for joins racing past the locked pre-check.
			if isDuplicate(err) {
				return httperr.ErrBusiness(httperr.CodeAlreadyQueued)
			}
			return err
		}

		return nil
	})
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --------------------------------------------------
// Entry (state change)
// --------------------------------------------------

func (r *QueueGormRepository) GetEntry(
	ctx context.Context,
	entryID string,
) (*models.QueueEntry, error) {

	var entry models.QueueEntry
	if err := r.db.WithContext(ctx).
		Where("id = ?", entryID).
		First(&entry).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeEntryNotFound)
		}
		return nil, err
	}

	return &entry, nil
}

func (r *QueueGormRepository) UpdateStatus(
	ctx context.Context,
	entryID string,
	from domain.Status,
	to domain.Status,
	at time.Time,
) (*models.QueueEntry, error) {

	updates := map[string]any{"status": string(to)}
	switch to {
	case domain.StatusInService:
		updates["started_at"] = at
	case domain.StatusCompleted:
		updates["completed_at"] = at
	case domain.StatusRemoved:
		updates["removed_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Where("id = ? AND status = ?", entryID, string(from)).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Either the entry is gone or another staff client won the race.
		var cur models.QueueEntry
		if err := r.db.WithContext(ctx).
			Where("id = ?", entryID).
			First(&cur).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness(httperr.CodeEntryNotFound)
			}
			return nil, err
		}
		return nil, httperr.ErrBusiness(httperr.CodeStaleEntry)
	}

	return r.GetEntry(ctx, entryID)
}

// --------------------------------------------------
// Snapshots
// --------------------------------------------------

func (r *QueueGormRepository) ActiveEntries(
	ctx context.Context,
) ([]models.QueueEntry, error) {

	var entries []models.QueueEntry
	if err := r.db.WithContext(ctx).
		Where("status IN ?", domain.ActiveStatusNames()).
		Order("joined_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *QueueGormRepository) ActiveEntryFor(
	ctx context.Context,
	customerID uint,
) (*models.QueueEntry, bool, error) {

	var entry models.QueueEntry
	err := r.db.WithContext(ctx).
		Where(
			"customer_id = ? AND status IN ?",
			customerID, domain.ActiveStatusNames(),
		).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &entry, true, nil
}

// Compile-time check
var _ domain.Repository = (*QueueGormRepository)(nil)
