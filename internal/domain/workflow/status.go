package workflow

// Status is the lifecycle flag of a request, orthogonal to its stage
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusApproved           Status = "APPROVED"
	StatusRejected           Status = "REJECTED"
	StatusCorrected          Status = "CORRECTED"
	StatusAssigned           Status = "ASSIGNED"
	StatusPartialFulfillment Status = "PARTIAL_FULFILLMENT"
	StatusFulfilled          Status = "FULFILLED"
	StatusCompleted          Status = "COMPLETED"
)

var validStatuses = map[Status]bool{
	StatusPending:            true,
	StatusApproved:           true,
	StatusRejected:           true,
	StatusCorrected:          true,
	StatusAssigned:           true,
	StatusPartialFulfillment: true,
	StatusFulfilled:          true,
	StatusCompleted:          true,
}

var terminalStatuses = map[Status]bool{
	StatusRejected:  true,
	StatusCompleted: true,
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a valid request status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from this status
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}
