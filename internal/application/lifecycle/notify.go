package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/event"
	"github.com/ofisi/requestflow/internal/domain/workflow"

	"github.com/ofisi/requestflow/internal/application/port"
)

// emit dispatches a domain event without blocking the transition
func (e *Engine) emit(ctx context.Context, evt *event.Event) {
	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(ctx, evt)
	}
}

// notifyTransition fans a transition out to the requester (unless they
// acted themselves) and broadcasts progress to everyone who has touched
// the request. Notification failures are logged and swallowed; they
// never roll back or fail the transition that produced them.
func (e *Engine) notifyTransition(ctx context.Context, req *entity.Request, requester, actor *port.User, kind, message string) {
	if requester.ID != actor.ID {
		e.send(ctx, requester.ID, kind, req.ID, message)
	}
	e.broadcastProgress(ctx, req, requester)
}

// notifyNextApprovers tells everyone eligible at the request's new
// stage that it awaits their review.
func (e *Engine) notifyNextApprovers(ctx context.Context, req *entity.Request, requester *port.User, chain workflow.Chain) {
	role := chain.RoleFor(req.Stage)
	if role == "" {
		return
	}

	var (
		approvers []*port.User
		err       error
	)
	if role == workflow.RoleSupervisor {
		approvers, err = e.identity.FindSupervisorsByDepartment(ctx, requester.DepartmentID)
	} else {
		approvers, err = e.identity.FindUsersByRoleAndDepartment(ctx, role, "")
	}
	if err != nil {
		e.logger.Error("Failed to resolve next approvers",
			"request_id", req.ID, "stage", req.Stage, "role", role, "error", err)
		return
	}

	message := fmt.Sprintf("%s request #%d awaits your review at %s", req.Domain, req.ID, req.Stage)
	for _, approver := range approvers {
		e.send(ctx, approver.ID, entity.NotificationKindAwaiting, req.ID, message)
	}
}

// broadcastProgress pushes a progress payload to the fan-out set:
// the requester plus every participant on the trail.
func (e *Engine) broadcastProgress(ctx context.Context, req *entity.Request, requester *port.User) {
	participants, err := e.participants.GetByRequestID(ctx, req.ID)
	if err != nil {
		e.logger.Error("Failed to load participants for broadcast", "request_id", req.ID, "error", err)
		return
	}

	seen := map[string]bool{requester.ID: true}
	userIDs := []string{requester.ID}
	for _, p := range participants {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			userIDs = append(userIDs, p.UserID)
		}
	}

	payload := map[string]interface{}{
		"request_id": req.ID,
		"domain":     req.Domain.String(),
		"stage":      req.Stage.String(),
		"status":     req.Status.String(),
	}
	if err := e.notifier.BroadcastProgress(ctx, userIDs, payload); err != nil {
		e.logger.Error("Progress broadcast failed", "request_id", req.ID, "error", err)
	}
}

// send records the notification in the outbox, attempts delivery and
// marks the outcome. Every failure here is swallowed.
func (e *Engine) send(ctx context.Context, userID, kind string, requestID int64, message string) {
	row := &entity.Notification{
		UserID:    userID,
		Kind:      kind,
		RequestID: requestID,
		Message:   message,
		Status:    entity.NotificationStatusPending,
		CreatedAt: time.Now(),
	}
	if err := e.notifications.Create(ctx, row); err != nil {
		e.logger.Error("Failed to record notification",
			"user_id", userID, "request_id", requestID, "error", err)
		return
	}

	if err := e.notifier.Notify(ctx, userID, kind, requestID, message); err != nil {
		e.logger.Error("Notification delivery failed",
			"user_id", userID, "request_id", requestID, "error", err)
		if markErr := e.notifications.MarkFailed(ctx, row.ID, err.Error()); markErr != nil {
			e.logger.Error("Failed to mark notification failed", "notification_id", row.ID, "error", markErr)
		}
		return
	}

	if err := e.notifications.MarkSent(ctx, row.ID); err != nil {
		e.logger.Error("Failed to mark notification sent", "notification_id", row.ID, "error", err)
	}
}
