package lifecycle

import (
	"context"
	"fmt"

	"github.com/ofisi/requestflow/internal/domain/event"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// Delete removes a request together with its approvals, corrections,
// participants, items and notifications in one transaction. A partial
// delete would be a correctness bug, not an inconvenience. Permitted
// to the requester while no approval exists, and to an admin always.
func (e *Engine) Delete(ctx context.Context, domain workflow.Domain, requestID int64, actorID string) error {
	req, err := e.loadRequest(ctx, domain, requestID)
	if err != nil {
		return err
	}

	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	if !actor.Actor().IsAdmin() {
		if actor.ID != req.RequesterID {
			return fmt.Errorf("%w: only the requester or an admin may delete", workflow.ErrForbidden)
		}
		count, err := e.approvals.CountByRequestID(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("count approvals: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: request %d already has approval activity", workflow.ErrForbidden, req.ID)
		}
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.notifications.DeleteByRequestID(txCtx, req.ID); err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		if err := e.participants.DeleteByRequestID(txCtx, req.ID); err != nil {
			return fmt.Errorf("delete participants: %w", err)
		}
		if err := e.corrections.DeleteByRequestID(txCtx, req.ID); err != nil {
			return fmt.Errorf("delete corrections: %w", err)
		}
		if err := e.approvals.DeleteByRequestID(txCtx, req.ID); err != nil {
			return fmt.Errorf("delete approvals: %w", err)
		}
		if err := e.items.DeleteByRequestID(txCtx, req.ID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		return e.requests.Delete(txCtx, req.ID)
	})
	if err != nil {
		e.logger.Error("Delete failed", "request_id", requestID, "actor_id", actorID, "error", err)
		return err
	}

	e.logger.Info("Request deleted", "domain", domain, "request_id", requestID)
	e.emit(ctx, event.New(event.TypeRequestDeleted, domain, requestID, actor.ID, nil))
	return nil
}

// DeleteAll is the administrative reset: every request across all three
// domains, plus all dependent rows, in a single transaction — or not
// at all.
func (e *Engine) DeleteAll(ctx context.Context, actorID string) error {
	actor, err := e.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.Actor().IsAdmin() {
		return fmt.Errorf("%w: admin capability required for a full reset", workflow.ErrForbidden)
	}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.notifications.DeleteAll(txCtx); err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		return e.requests.DeleteAll(txCtx)
	})
	if err != nil {
		e.logger.Error("DeleteAll failed", "actor_id", actorID, "error", err)
		return err
	}

	e.logger.Info("All requests deleted", "actor_id", actorID)
	return nil
}
