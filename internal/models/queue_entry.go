package models

import "time"

// QueueEntry is a customer's place in the walk-in line. Service name and
// duration are copied from the service at join time so later edits don't
// change entries already in the queue.
type QueueEntry struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	CustomerID    uint   `gorm:"index" json:"customer_id"`
	CustomerName  string `gorm:"size:100" json:"customer_name"`
	ContactHandle string `gorm:"size:100" json:"contact_handle"`

	ServiceID          uint   `json:"service_id"`
	ServiceName        string `gorm:"size:100" json:"service_name"`
	ServiceDurationMin int    `json:"service_duration_min"`

	Status string `gorm:"size:20;default:'waiting';index" json:"status"`

	// SequenceNumber is the display ordinal assigned at join time.
	// It is never renumbered; ranking goes by JoinedAt.
	SequenceNumber int       `json:"sequence_number"`
	JoinedAt       time.Time `gorm:"index" json:"joined_at"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	RemovedAt   *time.Time `json:"removed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
