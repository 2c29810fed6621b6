package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/event"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// Submit creates a request at SUBMITTED and immediately advances it to
// the first human stage of the resolved chain, so it is queryable as
// pending at a concrete review stage the instant it exists.
func (e *Engine) Submit(ctx context.Context, in *SubmitInput) (*entity.Request, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	requester, err := e.loadActor(ctx, in.RequesterID)
	if err != nil {
		return nil, err
	}
	chain := workflow.ResolveChain(in.Domain, requester.SeniorityLevel)

	now := time.Now()
	req := &entity.Request{
		Domain:         in.Domain,
		RequesterID:    requester.ID,
		Stage:          workflow.StageSubmitted,
		Status:         workflow.StatusPending,
		Purpose:        in.Purpose,
		Destination:    in.Destination,
		TripStart:      in.TripStart,
		TripEnd:        in.TripEnd,
		PassengerCount: in.PassengerCount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.requests.Create(txCtx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		// auto-advance past SUBMITTED: it has no human actor
		req.Stage = chain.First()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("advance request: %w", err)
		}

		for _, item := range in.Items {
			line := &entity.RequestItem{
				RequestID:         req.ID,
				StockItemID:       item.StockItemID,
				Name:              item.Name,
				RequestedQuantity: item.Quantity,
				Available:         true,
			}
			if err := e.items.Create(txCtx, line); err != nil {
				return fmt.Errorf("create item: %w", err)
			}
		}

		return e.touch(txCtx, req.ID, requester.ID, primaryRole(requester), entity.ActionSubmitted)
	})
	if err != nil {
		e.logger.Error("Submit failed", "domain", in.Domain, "requester_id", in.RequesterID, "error", err)
		return nil, err
	}

	e.logger.Info("Request submitted", "domain", req.Domain, "request_id", req.ID, "stage", req.Stage)
	e.emit(ctx, event.New(event.TypeRequestSubmitted, req.Domain, req.ID, requester.ID, map[string]interface{}{
		"stage": req.Stage.String(),
	}))
	e.notifyNextApprovers(ctx, req, requester, chain)
	return req, nil
}

// Approve records an APPROVED decision at the named stage and advances
// the request along the chain. The caller states which stage it is
// deciding; a request that has already moved past that stage refuses
// the call, so a retried approval cannot advance the chain twice. When
// the chain is exhausted, or when the next stage is fulfillment, the
// request's status becomes APPROVED; fulfillment itself still requires
// further action.
func (e *Engine) Approve(ctx context.Context, domain workflow.Domain, requestID int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error) {
	req, requester, chain, err := e.loadChainContext(ctx, domain, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireDecidable(req, stage); err != nil {
		return nil, err
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := e.authorizeDecision(actor, requester, req, chain, adminOverride); err != nil {
		return nil, err
	}

	step, _ := chain.StepFor(req.Stage)
	role := decisionRole(actor, step, adminOverride)
	decidedStage := req.Stage

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		// Re-verify against the persisted row: a concurrent decision
		// may have moved the stage between the read and this point.
		current, err := e.requests.GetByID(txCtx, req.ID)
		if err != nil {
			return fmt.Errorf("reload request: %w", err)
		}
		if err := requireDecidable(current, stage); err != nil {
			return err
		}
		*req = *current

		if err := e.approvals.Create(txCtx, &entity.Approval{
			RequestID:  req.ID,
			ApproverID: actor.ID,
			Role:       role,
			Stage:      decidedStage,
			Decision:   entity.DecisionApproved,
			Comment:    comment,
			Timestamp:  time.Now(),
		}); err != nil {
			return fmt.Errorf("append approval: %w", err)
		}

		if next, ok := chain.Next(req.Stage); ok {
			req.Stage = next
			if next == workflow.StageFulfillment {
				req.Status = workflow.StatusApproved
			} else {
				req.Status = workflow.StatusPending
			}
		} else {
			req.Status = workflow.StatusApproved
		}
		req.UpdatedAt = time.Now()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		if err := e.corrections.ResolveOpen(txCtx, req.ID); err != nil {
			return fmt.Errorf("resolve corrections: %w", err)
		}

		return e.touch(txCtx, req.ID, actor.ID, role, entity.ActionApproved)
	})
	if err != nil {
		e.logger.Error("Approve failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return nil, err
	}

	e.logger.Info("Request approved",
		"domain", domain, "request_id", req.ID,
		"stage", decidedStage, "next_stage", req.Stage, "status", req.Status)
	e.emit(ctx, event.New(event.TypeRequestApproved, domain, req.ID, actor.ID, map[string]interface{}{
		"stage":      decidedStage.String(),
		"next_stage": req.Stage.String(),
		"status":     req.Status.String(),
	}))
	e.notifyTransition(ctx, req, requester, actor, entity.NotificationKindApproved,
		fmt.Sprintf("Your %s request #%d was approved at %s", domain, req.ID, decidedStage))
	// Only a still-pending request has a next reviewer; an exhausted
	// chain keeps its last stage and must not re-notify its approver.
	if req.Status == workflow.StatusPending {
		e.notifyNextApprovers(ctx, req, requester, chain)
	}
	return req, nil
}

// Reject records a REJECTED decision at the named stage. Rejection is
// terminal regardless of stage; a request that already moved past the
// named stage refuses the call.
func (e *Engine) Reject(ctx context.Context, domain workflow.Domain, requestID int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error) {
	req, requester, chain, err := e.loadChainContext(ctx, domain, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireDecidable(req, stage); err != nil {
		return nil, err
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := e.authorizeDecision(actor, requester, req, chain, adminOverride); err != nil {
		return nil, err
	}

	step, _ := chain.StepFor(req.Stage)
	role := decisionRole(actor, step, adminOverride)

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := e.requests.GetByID(txCtx, req.ID)
		if err != nil {
			return fmt.Errorf("reload request: %w", err)
		}
		if err := requireDecidable(current, stage); err != nil {
			return err
		}
		*req = *current

		if err := e.approvals.Create(txCtx, &entity.Approval{
			RequestID:  req.ID,
			ApproverID: actor.ID,
			Role:       role,
			Stage:      req.Stage,
			Decision:   entity.DecisionRejected,
			Comment:    comment,
			Timestamp:  time.Now(),
		}); err != nil {
			return fmt.Errorf("append rejection: %w", err)
		}

		req.Status = workflow.StatusRejected
		req.UpdatedAt = time.Now()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return e.touch(txCtx, req.ID, actor.ID, role, entity.ActionRejected)
	})
	if err != nil {
		e.logger.Error("Reject failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return nil, err
	}

	e.logger.Info("Request rejected", "domain", domain, "request_id", req.ID, "stage", req.Stage)
	e.emit(ctx, event.New(event.TypeRequestRejected, domain, req.ID, actor.ID, map[string]interface{}{
		"stage":   req.Stage.String(),
		"comment": comment,
	}))
	e.notifyTransition(ctx, req, requester, actor, entity.NotificationKindRejected,
		fmt.Sprintf("Your %s request #%d was rejected: %s", domain, req.ID, comment))
	return req, nil
}

// Correct lets the current stage's approver send the request back to
// the requester for amendment. The stage does not move; the same
// approver re-evaluates after resubmission. The patch, when present,
// amends the mutable request fields in the same transaction.
func (e *Engine) Correct(ctx context.Context, domain workflow.Domain, requestID int64, actorID, comment string, patch *CorrectionPatch) (*entity.Request, error) {
	if comment == "" {
		return nil, fmt.Errorf("%w: a correction comment is required", workflow.ErrValidation)
	}

	req, requester, chain, err := e.loadChainContext(ctx, domain, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireNotTerminal(req); err != nil {
		return nil, err
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := e.authorizeDecision(actor, requester, req, chain, false); err != nil {
		return nil, err
	}

	step, _ := chain.StepFor(req.Stage)
	role := decisionRole(actor, step, false)

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.corrections.Create(txCtx, &entity.Correction{
			RequestID:   req.ID,
			RequestedBy: actor.ID,
			Role:        role,
			Comment:     comment,
			Timestamp:   time.Now(),
		}); err != nil {
			return fmt.Errorf("append correction: %w", err)
		}

		req.Status = workflow.StatusCorrected
		applyPatch(req, patch)
		req.UpdatedAt = time.Now()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return e.touch(txCtx, req.ID, actor.ID, role, entity.ActionCorrected)
	})
	if err != nil {
		e.logger.Error("Correct failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return nil, err
	}

	e.logger.Info("Correction requested", "domain", domain, "request_id", req.ID, "stage", req.Stage)
	e.emit(ctx, event.New(event.TypeRequestCorrected, domain, req.ID, actor.ID, map[string]interface{}{
		"stage":   req.Stage.String(),
		"comment": comment,
	}))
	e.notifyTransition(ctx, req, requester, actor, entity.NotificationKindCorrection,
		fmt.Sprintf("Your %s request #%d needs correction: %s", domain, req.ID, comment))
	return req, nil
}

// applyPatch amends the mutable request fields named by the patch
func applyPatch(req *entity.Request, patch *CorrectionPatch) {
	if patch == nil {
		return
	}
	if patch.Purpose != nil {
		req.Purpose = *patch.Purpose
	}
	if patch.Destination != nil {
		req.Destination = *patch.Destination
	}
	if patch.TripStart != nil {
		req.TripStart = patch.TripStart
	}
	if patch.TripEnd != nil {
		req.TripEnd = patch.TripEnd
	}
	if patch.PassengerCount != nil {
		req.PassengerCount = *patch.PassengerCount
	}
}

// Cancel withdraws a request. Cancellation writes a rejection-shaped
// approval entry so downstream history treats it uniformly with
// rejection.
func (e *Engine) Cancel(ctx context.Context, domain workflow.Domain, requestID int64, actorID, reason string) (*entity.Request, error) {
	req, requester, _, err := e.loadChainContext(ctx, domain, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireNotTerminal(req); err != nil {
		return nil, err
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	count, err := e.approvals.CountByRequestID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("count approvals: %w", err)
	}

	if err := workflow.AuthorizeCancel(actor.Actor(), workflow.Requester{
		ID:             requester.ID,
		SeniorityLevel: requester.SeniorityLevel,
		DepartmentID:   requester.DepartmentID,
	}, req.Stage, count); err != nil {
		return nil, err
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.approvals.Create(txCtx, &entity.Approval{
			RequestID:  req.ID,
			ApproverID: actor.ID,
			Role:       primaryRole(actor),
			Stage:      req.Stage,
			Decision:   entity.DecisionRejected,
			Comment:    "cancelled: " + reason,
			Timestamp:  time.Now(),
		}); err != nil {
			return fmt.Errorf("append cancellation: %w", err)
		}

		req.Status = workflow.StatusRejected
		req.UpdatedAt = time.Now()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return e.touch(txCtx, req.ID, actor.ID, primaryRole(actor), entity.ActionCancelled)
	})
	if err != nil {
		e.logger.Error("Cancel failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return nil, err
	}

	e.logger.Info("Request cancelled", "domain", domain, "request_id", req.ID)
	e.emit(ctx, event.New(event.TypeRequestCancelled, domain, req.ID, actor.ID, map[string]interface{}{
		"reason": reason,
	}))
	e.notifyTransition(ctx, req, requester, actor, entity.NotificationKindCancelled,
		fmt.Sprintf("Your %s request #%d was cancelled: %s", domain, req.ID, reason))
	return req, nil
}

// Route is the Store-only DGS fork: while at DGS_REVIEW, DGS sends the
// request either straight to SO_REVIEW or down the default DDGS path.
// The choice overrides the chain's next() step once and is recorded on
// the request for auditability.
func (e *Engine) Route(ctx context.Context, requestID int64, actorID string, directToSO bool) (*entity.Request, error) {
	req, requester, chain, err := e.loadChainContext(ctx, workflow.DomainStore, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireNotTerminal(req); err != nil {
		return nil, err
	}
	if req.Stage != workflow.StageDGSReview {
		return nil, fmt.Errorf("%w: routing is only possible at %s, request is at %s",
			workflow.ErrInvalidState, workflow.StageDGSReview, req.Stage)
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Actor().HasRole(workflow.RoleDGS) {
		return nil, fmt.Errorf("%w: role %s required to route", workflow.ErrForbidden, workflow.RoleDGS)
	}

	target := workflow.StageDDGSReview
	if directToSO {
		target = workflow.StageSOReview
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.approvals.Create(txCtx, &entity.Approval{
			RequestID:  req.ID,
			ApproverID: actor.ID,
			Role:       workflow.RoleDGS,
			Stage:      workflow.StageDGSReview,
			Decision:   entity.DecisionApproved,
			Comment:    fmt.Sprintf("routed to %s", target),
			Timestamp:  time.Now(),
		}); err != nil {
			return fmt.Errorf("append routing approval: %w", err)
		}

		req.Stage = target
		req.Status = workflow.StatusPending
		req.DirectToSO = directToSO
		req.UpdatedAt = time.Now()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return e.touch(txCtx, req.ID, actor.ID, workflow.RoleDGS, entity.ActionRouted)
	})
	if err != nil {
		e.logger.Error("Route failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return nil, err
	}

	e.logger.Info("Request routed", "request_id", req.ID, "target", target, "direct_to_so", directToSO)
	e.emit(ctx, event.New(event.TypeRequestRouted, workflow.DomainStore, req.ID, actor.ID, map[string]interface{}{
		"target":       target.String(),
		"direct_to_so": directToSO,
	}))
	e.notifyTransition(ctx, req, requester, actor, entity.NotificationKindRouted,
		fmt.Sprintf("Your store request #%d moved to %s", req.ID, target))
	e.notifyNextApprovers(ctx, req, requester, chain)
	return req, nil
}

// Assign is the Vehicle-only terminal action: TO binds a vehicle and
// driver to the request and forces the fulfillment stage.
func (e *Engine) Assign(ctx context.Context, requestID int64, actorID string, vehicleID, driverID int64) (*entity.Request, error) {
	req, requester, _, err := e.loadChainContext(ctx, workflow.DomainVehicle, requestID)
	if err != nil {
		return nil, err
	}
	if err := requireNotTerminal(req); err != nil {
		return nil, err
	}
	if req.Stage != workflow.StageTOReview && req.Status != workflow.StatusApproved {
		return nil, fmt.Errorf("%w: request %d is not ready for assignment (stage %s, status %s)",
			workflow.ErrInvalidState, req.ID, req.Stage, req.Status)
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	a := actor.Actor()
	if !a.HasRole(workflow.RoleTO) && !a.IsAdmin() {
		return nil, fmt.Errorf("%w: role %s required to assign", workflow.ErrForbidden, workflow.RoleTO)
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		req.VehicleID = &vehicleID
		req.DriverID = &driverID
		req.Stage = workflow.StageFulfillment
		req.Status = workflow.StatusAssigned
		req.UpdatedAt = time.Now()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return e.touch(txCtx, req.ID, actor.ID, workflow.RoleTO, entity.ActionAssigned)
	})
	if err != nil {
		e.logger.Error("Assign failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return nil, err
	}

	e.logger.Info("Vehicle assigned", "request_id", req.ID, "vehicle_id", vehicleID, "driver_id", driverID)
	e.emit(ctx, event.New(event.TypeRequestAssigned, workflow.DomainVehicle, req.ID, actor.ID, map[string]interface{}{
		"vehicle_id": vehicleID,
		"driver_id":  driverID,
	}))
	e.notifyTransition(ctx, req, requester, actor, entity.NotificationKindAssigned,
		fmt.Sprintf("A vehicle has been assigned to your trip request #%d", req.ID))
	return req, nil
}

// SetPriority flags a request for client-side sorting. It never affects
// stage order. Only DGS or an admin may set it.
func (e *Engine) SetPriority(ctx context.Context, domain workflow.Domain, requestID int64, actorID string, priority bool) (*entity.Request, error) {
	req, err := e.loadRequest(ctx, domain, requestID)
	if err != nil {
		return nil, err
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	a := actor.Actor()
	if !a.HasRole(workflow.RoleDGS) && !a.IsAdmin() {
		return nil, fmt.Errorf("%w: a senior role is required to set priority", workflow.ErrForbidden)
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		req.Priority = priority
		req.UpdatedAt = time.Now()
		return e.requests.Update(txCtx, req)
	})
	if err != nil {
		e.logger.Error("SetPriority failed", "request_id", requestID, "error", err)
		return nil, err
	}

	e.logger.Info("Priority updated", "request_id", req.ID, "priority", priority)
	return req, nil
}
