package entity

import "time"

// Notification status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)

// Notification kind constants
const (
	NotificationKindSubmitted  = "REQUEST_SUBMITTED"
	NotificationKindApproved   = "REQUEST_APPROVED"
	NotificationKindRejected   = "REQUEST_REJECTED"
	NotificationKindCorrection = "CORRECTION_REQUESTED"
	NotificationKindCancelled  = "REQUEST_CANCELLED"
	NotificationKindRouted     = "REQUEST_ROUTED"
	NotificationKindAssigned   = "VEHICLE_ASSIGNED"
	NotificationKindFulfilled  = "REQUEST_FULFILLED"
	NotificationKindAdjusted   = "QUANTITY_ADJUSTED"
	NotificationKindAwaiting   = "AWAITING_REVIEW"
)

// Notification is one outbound message recorded before dispatch. Send
// failures are recorded on the row and never fail the transition that
// produced them.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Kind      string     `json:"kind"`
	RequestID int64      `json:"request_id"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	ErrorMsg  string     `json:"error_msg,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}
