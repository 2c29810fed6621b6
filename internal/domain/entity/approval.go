package entity

import (
	"time"

	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// Decision constants for Approval records
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// Approval is one decision in a request's append-only approval history.
// Records are never updated or deleted; a REJECTED decision is terminal.
type Approval struct {
	ID         int64          `json:"id"`
	RequestID  int64          `json:"request_id"`
	ApproverID string         `json:"approver_id"`
	Role       workflow.Role  `json:"role"`
	Stage      workflow.Stage `json:"stage"`
	Decision   string         `json:"decision"`
	Comment    string         `json:"comment,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Correction is an approver's request that the requester amend the
// request. The stage does not move; the same approver re-evaluates
// after resubmission.
type Correction struct {
	ID          int64         `json:"id"`
	RequestID   int64         `json:"request_id"`
	RequestedBy string        `json:"requested_by"`
	Role        workflow.Role `json:"role"`
	Comment     string        `json:"comment"`
	Resolved    bool          `json:"resolved"`
	Timestamp   time.Time     `json:"timestamp"`
}
