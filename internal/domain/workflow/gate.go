package workflow

import "fmt"

// Requester carries the request-side facts the gate needs about the
// user who authored the request.
type Requester struct {
	ID             string
	SeniorityLevel int
	DepartmentID   string
}

// Authorize decides whether the actor may decide (approve, reject or
// request correction) at the given stage of the resolved chain.
//
// Precedence, highest first:
//  1. DGS may act at any stage of a workflow it did not author, as an
//     escalation valve.
//  2. SUPERVISOR_REVIEW requires supervisor capability scoped to the
//     requester's department.
//  3. Exact role-to-stage match from the resolved chain.
//
// The admin-override path is an explicit flag checked by the caller
// before consulting the gate; it is not part of the gate itself.
// Stages without a required role are never directly approvable.
func Authorize(actor Actor, requester Requester, stage Stage, chain Chain) error {
	step, ok := chain.StepFor(stage)
	if !ok {
		return fmt.Errorf("%w: stage %s is not part of the approval chain", ErrForbidden, stage)
	}
	if step.RequiredRole == "" {
		return fmt.Errorf("%w: stage %s has no approver role", ErrForbidden, stage)
	}

	if actor.HasRole(RoleDGS) && actor.ID != requester.ID {
		return nil
	}

	if step.RequiredRole == RoleSupervisor {
		if !actor.IsSupervisor() {
			return fmt.Errorf("%w: supervisor capability required at %s", ErrForbidden, stage)
		}
		if actor.DepartmentID != requester.DepartmentID {
			return fmt.Errorf("%w: supervisor is scoped to department %s", ErrForbidden, requester.DepartmentID)
		}
		return nil
	}

	if !actor.HasRole(step.RequiredRole) {
		return fmt.Errorf("%w: role %s required at %s", ErrForbidden, step.RequiredRole, stage)
	}
	return nil
}

// cancellableByRequester lists the stages at which the requester may
// still withdraw their own request.
var cancellableByRequester = map[Stage]bool{
	StageSubmitted:        true,
	StageSupervisorReview: true,
	StageDGSReview:        true,
}

// AuthorizeCancel decides whether the actor may cancel the request.
// The requester may withdraw their own request while it is early in the
// chain and nobody has decided on it yet. A department supervisor (for a
// sub-seniority requester) or DGS (for a senior requester) may cancel a
// request still at SUBMITTED.
func AuthorizeCancel(actor Actor, requester Requester, stage Stage, approvalCount int) error {
	if actor.ID == requester.ID {
		if approvalCount > 0 {
			return fmt.Errorf("%w: request already has approval activity", ErrForbidden)
		}
		if !cancellableByRequester[stage] {
			return fmt.Errorf("%w: request can no longer be cancelled at %s", ErrForbidden, stage)
		}
		return nil
	}

	if stage != StageSubmitted {
		return fmt.Errorf("%w: only the requester may cancel past %s", ErrForbidden, StageSubmitted)
	}
	if requester.SeniorityLevel < SeniorityThreshold {
		if actor.IsSupervisor() && actor.DepartmentID == requester.DepartmentID {
			return nil
		}
		return fmt.Errorf("%w: department supervisor required to cancel", ErrForbidden)
	}
	if actor.HasRole(RoleDGS) {
		return nil
	}
	return fmt.Errorf("%w: DGS role required to cancel a senior staff request", ErrForbidden)
}
