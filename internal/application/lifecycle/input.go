package lifecycle

import (
	"fmt"
	"time"

	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// ItemInput is one requested line of an ICT or Store request
type ItemInput struct {
	StockItemID int64  `json:"stock_item_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
}

// SubmitInput carries everything needed to create a request
type SubmitInput struct {
	Domain      workflow.Domain `json:"domain"`
	RequesterID string          `json:"requester_id"`
	Purpose     string          `json:"purpose"`

	// Vehicle domain
	Destination    string     `json:"destination,omitempty"`
	TripStart      *time.Time `json:"trip_start,omitempty"`
	TripEnd        *time.Time `json:"trip_end,omitempty"`
	PassengerCount int        `json:"passenger_count,omitempty"`

	// ICT and Store domains
	Items []ItemInput `json:"items,omitempty"`
}

// Validate checks the input before any mutation happens
func (in *SubmitInput) Validate() error {
	if !in.Domain.IsValid() {
		return fmt.Errorf("%w: unknown domain %q", workflow.ErrValidation, in.Domain)
	}
	if in.RequesterID == "" {
		return fmt.Errorf("%w: requester id is required", workflow.ErrValidation)
	}
	switch in.Domain {
	case workflow.DomainVehicle:
		if in.Destination == "" {
			return fmt.Errorf("%w: destination is required for a vehicle request", workflow.ErrValidation)
		}
	case workflow.DomainICT, workflow.DomainStore:
		if len(in.Items) == 0 {
			return fmt.Errorf("%w: at least one item is required", workflow.ErrValidation)
		}
		for i, item := range in.Items {
			if item.Quantity <= 0 {
				return fmt.Errorf("%w: item %d has non-positive quantity", workflow.ErrValidation, i)
			}
		}
	}
	return nil
}

// CorrectionPatch holds the mutable request fields an approver may amend
// while requesting correction. Nil fields are left untouched.
type CorrectionPatch struct {
	Purpose        *string    `json:"purpose,omitempty"`
	Destination    *string    `json:"destination,omitempty"`
	TripStart      *time.Time `json:"trip_start,omitempty"`
	TripEnd        *time.Time `json:"trip_end,omitempty"`
	PassengerCount *int       `json:"passenger_count,omitempty"`
}

// FulfillLine is one line of a fulfillment call, keyed by the request
// item ID
type FulfillLine struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// QuantityChange adjusts the approved quantity of one request item
type QuantityChange struct {
	ItemID           int64 `json:"item_id"`
	ApprovedQuantity int   `json:"approved_quantity"`
}
