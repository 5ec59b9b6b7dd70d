package dto

import "time"

// CustomerQueueView is what a queued customer's status page shows.
type CustomerQueueView struct {
	Queued               bool   `json:"queued"`
	EntryID              string `json:"entry_id,omitempty"`
	Status               string `json:"status,omitempty"`
	ServiceName          string `json:"service_name,omitempty"`
	SequenceNumber       int    `json:"sequence_number,omitempty"`
	Position             int    `json:"position"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
	CompletionPercent    int    `json:"completion_percent"`
}

// StaffQueueRow is one line of the staff board, ordered by rank.
type StaffQueueRow struct {
	EntryID            string    `json:"entry_id"`
	Position           int       `json:"position"`
	SequenceNumber     int       `json:"sequence_number"`
	CustomerName       string    `json:"customer_name"`
	ContactHandle      string    `json:"contact_handle"`
	ServiceName        string    `json:"service_name"`
	ServiceDurationMin int       `json:"service_duration_min"`
	Status             string    `json:"status"`
	JoinedAt           time.Time `json:"joined_at"`
}
