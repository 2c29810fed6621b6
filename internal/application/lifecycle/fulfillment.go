package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/event"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// fulfillableStatuses are the request statuses fulfillment may act on.
// PARTIAL_FULFILLMENT is included so a later call can top up the
// remainder of an earlier short delivery.
var fulfillableStatuses = map[workflow.Status]bool{
	workflow.StatusPending:            true,
	workflow.StatusApproved:           true,
	workflow.StatusPartialFulfillment: true,
}

// Fulfill debits on-hand stock against the request's line items, up to
// each line's approved (or requested) quantity. Asking for more than
// the remaining target is an error; stock scarcity is not — the grant
// is clamped to what is on hand and the shortfall recorded as a
// partial-fulfillment note.
func (e *Engine) Fulfill(ctx context.Context, domain workflow.Domain, requestID int64, actorID string, lines []FulfillLine) (*entity.Request, error) {
	if domain != workflow.DomainICT && domain != workflow.DomainStore {
		return nil, fmt.Errorf("%w: %s requests have no fulfillment ledger", workflow.ErrValidation, domain)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one fulfillment line is required", workflow.ErrValidation)
	}
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: fulfillment line %d has non-positive quantity", workflow.ErrValidation, i)
		}
	}
	if e.inventory == nil {
		return nil, fmt.Errorf("%w: no inventory store configured", workflow.ErrInvalidState)
	}

	req, requester, _, err := e.loadChainContext(ctx, domain, requestID)
	if err != nil {
		return nil, err
	}
	if !fulfillableStatuses[req.Status] {
		return nil, fmt.Errorf("%w: request %d is %s, not fulfillable", workflow.ErrInvalidState, req.ID, req.Status)
	}
	if req.Stage != workflow.StageSOReview && req.Stage != workflow.StageFulfillment {
		return nil, fmt.Errorf("%w: request %d is at %s, not fulfillable", workflow.ErrInvalidState, req.ID, req.Stage)
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	a := actor.Actor()
	if !a.HasRole(workflow.RoleSO) && !a.IsAdmin() {
		return nil, fmt.Errorf("%w: role %s required to fulfill", workflow.ErrForbidden, workflow.RoleSO)
	}

	items, err := e.items.GetByRequestID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	byID := make(map[int64]*entity.RequestItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	// Validate every line before touching any state. Lines naming the
	// same item count against one shared remainder, so a call cannot
	// sneak past the per-item target by splitting a quantity.
	requested := make(map[int64]int, len(lines))
	for _, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: item %d does not belong to request %d", workflow.ErrNotFound, line.ItemID, req.ID)
		}
		requested[line.ItemID] += line.Quantity
		if requested[line.ItemID] > item.Remaining() {
			return nil, fmt.Errorf("%w: quantity %d exceeds approved quantity for item %d (%d remaining)",
				workflow.ErrInvalidState, requested[line.ItemID], item.ID, item.Remaining())
		}
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, line := range lines {
			item := byID[line.ItemID]

			onHand, err := e.inventory.GetOnHand(txCtx, item.StockItemID)
			if err != nil {
				return fmt.Errorf("check stock for item %d: %w", item.ID, err)
			}

			grant := line.Quantity
			if onHand < grant {
				grant = onHand
				item.Note = fmt.Sprintf("partial fulfillment: %d of %d on hand", onHand, line.Quantity)
			}
			item.Available = onHand > 0

			if grant > 0 {
				if err := e.inventory.Debit(txCtx, item.StockItemID, grant); err != nil {
					return fmt.Errorf("debit stock for item %d: %w", item.ID, err)
				}
				item.FulfilledQuantity += grant
			}

			if err := e.items.Update(txCtx, item); err != nil {
				return fmt.Errorf("update item %d: %w", item.ID, err)
			}
		}

		req.Status = workflow.StatusPartialFulfillment
		if allFulfilled(items) {
			req.Status = workflow.StatusFulfilled
		}
		req.Stage = workflow.StageFulfillment
		req.UpdatedAt = time.Now()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return e.touch(txCtx, req.ID, actor.ID, workflow.RoleSO, entity.ActionFulfilled)
	})
	if err != nil {
		e.logger.Error("Fulfill failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return nil, err
	}

	e.logger.Info("Request fulfilled", "domain", domain, "request_id", req.ID, "status", req.Status)
	e.emit(ctx, event.New(event.TypeRequestFulfilled, domain, req.ID, actor.ID, map[string]interface{}{
		"status": req.Status.String(),
	}))
	e.notifyTransition(ctx, req, requester, actor, entity.NotificationKindFulfilled,
		fmt.Sprintf("Your %s request #%d is now %s", domain, req.ID, req.Status))
	return req, nil
}

// allFulfilled reports whether every line has reached its target
func allFulfilled(items []*entity.RequestItem) bool {
	for _, item := range items {
		if !item.IsFulfilled() {
			return false
		}
	}
	return true
}

// AdjustQuantities is the ICT-only DDICT action that trims per-line
// approved quantities while the request is still under DDICT review.
// Adjusting below the fulfilled-so-far amount resets the fulfilled
// quantity to zero rather than leaving the ledger over-committed.
func (e *Engine) AdjustQuantities(ctx context.Context, requestID int64, actorID string, changes []QuantityChange) (*entity.Request, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: at least one quantity change is required", workflow.ErrValidation)
	}
	for i, change := range changes {
		if change.ApprovedQuantity < 0 {
			return nil, fmt.Errorf("%w: quantity change %d is negative", workflow.ErrValidation, i)
		}
	}

	req, requester, _, err := e.loadChainContext(ctx, workflow.DomainICT, requestID)
	if err != nil {
		return nil, err
	}
	if req.Stage != workflow.StageDDICTReview {
		return nil, fmt.Errorf("%w: quantities can only be adjusted at %s, request is at %s",
			workflow.ErrInvalidState, workflow.StageDDICTReview, req.Stage)
	}
	if req.Status != workflow.StatusPending && req.Status != workflow.StatusCorrected {
		return nil, fmt.Errorf("%w: request %d is %s", workflow.ErrInvalidState, req.ID, req.Status)
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	a := actor.Actor()
	if !a.HasRole(workflow.RoleDDICT) && !a.IsAdmin() {
		return nil, fmt.Errorf("%w: role %s required to adjust quantities", workflow.ErrForbidden, workflow.RoleDDICT)
	}

	items, err := e.items.GetByRequestID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	byID := make(map[int64]*entity.RequestItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, change := range changes {
		if _, ok := byID[change.ItemID]; !ok {
			return nil, fmt.Errorf("%w: item %d does not belong to request %d", workflow.ErrNotFound, change.ItemID, req.ID)
		}
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, change := range changes {
			item := byID[change.ItemID]
			approved := change.ApprovedQuantity

			if approved < item.FulfilledQuantity {
				item.FulfilledQuantity = 0
			}
			item.ApprovedQuantity = &approved
			item.Note = fmt.Sprintf("approved quantity set to %d of %d requested", approved, item.RequestedQuantity)

			if err := e.items.Update(txCtx, item); err != nil {
				return fmt.Errorf("update item %d: %w", item.ID, err)
			}
		}

		req.UpdatedAt = time.Now()
		if err := e.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		return e.touch(txCtx, req.ID, actor.ID, workflow.RoleDDICT, entity.ActionAdjusted)
	})
	if err != nil {
		e.logger.Error("AdjustQuantities failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return nil, err
	}

	e.logger.Info("Quantities adjusted", "request_id", req.ID, "changes", len(changes))
	e.emit(ctx, event.New(event.TypeQuantityAdjusted, workflow.DomainICT, req.ID, actor.ID, map[string]interface{}{
		"changes": len(changes),
	}))
	e.notifyTransition(ctx, req, requester, actor, entity.NotificationKindAdjusted,
		fmt.Sprintf("Approved quantities on your ICT request #%d were adjusted", req.ID))
	return req, nil
}
