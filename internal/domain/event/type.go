package event

// Type identifies the type of domain event
type Type string

const (
	TypeRequestSubmitted Type = "request.submitted"
	TypeRequestApproved  Type = "request.approved"
	TypeRequestRejected  Type = "request.rejected"
	TypeRequestCorrected Type = "request.corrected"
	TypeRequestCancelled Type = "request.cancelled"
	TypeRequestRouted    Type = "request.routed"
	TypeRequestAssigned  Type = "request.assigned"
	TypeRequestFulfilled Type = "request.fulfilled"
	TypeQuantityAdjusted Type = "request.quantity_adjusted"
	TypeStatusChanged    Type = "request.status_changed"
	TypeRequestDeleted   Type = "request.deleted"
)

// Types returns every defined event type, for subscribers that listen
// to the whole stream
func Types() []Type {
	return []Type{
		TypeRequestSubmitted,
		TypeRequestApproved,
		TypeRequestRejected,
		TypeRequestCorrected,
		TypeRequestCancelled,
		TypeRequestRouted,
		TypeRequestAssigned,
		TypeRequestFulfilled,
		TypeQuantityAdjusted,
		TypeStatusChanged,
		TypeRequestDeleted,
	}
}

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeRequestSubmitted,
		TypeRequestApproved,
		TypeRequestRejected,
		TypeRequestCorrected,
		TypeRequestCancelled,
		TypeRequestRouted,
		TypeRequestAssigned,
		TypeRequestFulfilled,
		TypeQuantityAdjusted,
		TypeStatusChanged,
		TypeRequestDeleted:
		return true
	default:
		return false
	}
}
