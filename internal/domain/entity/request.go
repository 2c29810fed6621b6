package entity

import (
	"time"

	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// Request is the mutable core of a single organizational request. The
// same shape serves all three domains; domain-specific fields are nil
// or zero where they do not apply. The entity only ever holds foreign
// keys, never expanded read models.
type Request struct {
	ID          int64             `json:"id"`
	Domain      workflow.Domain   `json:"domain"`
	RequesterID string            `json:"requester_id"`
	Stage       workflow.Stage    `json:"stage"`
	Status      workflow.Status   `json:"status"`
	Purpose     string            `json:"purpose"`
	Priority    bool              `json:"priority"`

	// Store domain: records the DGS routing fork for auditability
	DirectToSO bool `json:"direct_to_so,omitempty"`

	// Vehicle domain
	Destination    string     `json:"destination,omitempty"`
	TripStart      *time.Time `json:"trip_start,omitempty"`
	TripEnd        *time.Time `json:"trip_end,omitempty"`
	PassengerCount int        `json:"passenger_count,omitempty"`
	VehicleID      *int64     `json:"vehicle_id,omitempty"`
	DriverID       *int64     `json:"driver_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal returns true if the request can no longer transition
func (r *Request) IsTerminal() bool {
	return r.Status.IsTerminal()
}
