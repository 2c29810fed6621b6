package entity

import (
	"time"

	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// Participant trail action constants
const (
	ActionSubmitted = "SUBMITTED"
	ActionApproved  = "APPROVED"
	ActionRejected  = "REJECTED"
	ActionCorrected = "CORRECTED"
	ActionCancelled = "CANCELLED"
	ActionRouted    = "ROUTED"
	ActionAssigned  = "ASSIGNED"
	ActionFulfilled = "FULFILLED"
	ActionAdjusted  = "ADJUSTED"
)

// Participant records one user's involvement with a request. There is
// at most one entry per user and request; repeat involvement overwrites
// role, action and timestamp in place. The requester's entry is created
// at submission and never removed.
type Participant struct {
	RequestID     int64         `json:"request_id"`
	UserID        string        `json:"user_id"`
	Role          workflow.Role `json:"role"`
	LastAction    string        `json:"last_action"`
	LastTimestamp time.Time     `json:"last_timestamp"`
}
