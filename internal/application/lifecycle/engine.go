package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/ofisi/requestflow/internal/application/dispatcher"
	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// Logger is the minimal logging surface the engine needs
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Engine is the request lifecycle state machine shared by all three
// request domains. Per-domain behavior comes from the resolved chain
// and a handful of domain-gated operations, not from parallel engines.
type Engine struct {
	requests      port.RequestRepository
	approvals     port.ApprovalRepository
	corrections   port.CorrectionRepository
	participants  port.ParticipantRepository
	items         port.RequestItemRepository
	notifications port.NotificationRepository
	tx            port.TransactionManager
	identity      port.IdentityProvider
	inventory     port.InventoryStore
	notifier      port.Notifier
	dispatcher    dispatcher.Dispatcher
	logger        Logger
}

// Option configures the engine
type Option func(*Engine)

// WithDispatcher sets the event dispatcher for emitting domain events
func WithDispatcher(d dispatcher.Dispatcher) Option {
	return func(e *Engine) {
		e.dispatcher = d
	}
}

// WithInventory sets the inventory store used by ICT/Store fulfillment
func WithInventory(inv port.InventoryStore) Option {
	return func(e *Engine) {
		e.inventory = inv
	}
}

// NewEngine creates the shared lifecycle engine
func NewEngine(
	requests port.RequestRepository,
	approvals port.ApprovalRepository,
	corrections port.CorrectionRepository,
	participants port.ParticipantRepository,
	items port.RequestItemRepository,
	notifications port.NotificationRepository,
	tx port.TransactionManager,
	identity port.IdentityProvider,
	notifier port.Notifier,
	logger Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		requests:      requests,
		approvals:     approvals,
		corrections:   corrections,
		participants:  participants,
		items:         items,
		notifications: notifications,
		tx:            tx,
		identity:      identity,
		notifier:      notifier,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RequestDetail is the full read model of one request
type RequestDetail struct {
	Request      *entity.Request       `json:"request"`
	Approvals    []*entity.Approval    `json:"approvals"`
	Corrections  []*entity.Correction  `json:"corrections,omitempty"`
	Participants []*entity.Participant `json:"participants"`
	Items        []*entity.RequestItem `json:"items,omitempty"`
}

// Get returns the request with its approval history, participant trail
// and line items
func (e *Engine) Get(ctx context.Context, domain workflow.Domain, requestID int64) (*RequestDetail, error) {
	req, err := e.loadRequest(ctx, domain, requestID)
	if err != nil {
		return nil, err
	}

	approvals, err := e.approvals.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load approvals: %w", err)
	}
	corrections, err := e.corrections.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load corrections: %w", err)
	}
	participants, err := e.participants.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	detail := &RequestDetail{
		Request:      req,
		Approvals:    approvals,
		Corrections:  corrections,
		Participants: participants,
	}

	if domain == workflow.DomainICT || domain == workflow.DomainStore {
		items, err := e.items.GetByRequestID(ctx, requestID)
		if err != nil {
			return nil, fmt.Errorf("load items: %w", err)
		}
		detail.Items = items
	}

	return detail, nil
}

// List returns requests matching the filter
func (e *Engine) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	return e.requests.List(ctx, filter)
}

// loadRequest fetches a request and verifies it belongs to the domain
func (e *Engine) loadRequest(ctx context.Context, domain workflow.Domain, requestID int64) (*entity.Request, error) {
	req, err := e.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load request %d: %w", requestID, err)
	}
	if req == nil || req.Domain != domain {
		return nil, fmt.Errorf("%w: request %d", workflow.ErrNotFound, requestID)
	}
	return req, nil
}

// loadChainContext fetches the request, its requester and the chain
// resolved from the requester's current seniority. The chain is
// recomputed on every call rather than cached on the request; a
// mid-workflow seniority change therefore shifts subsequent gate
// evaluations, preserving the long-standing behavior of this system.
func (e *Engine) loadChainContext(ctx context.Context, domain workflow.Domain, requestID int64) (*entity.Request, *port.User, workflow.Chain, error) {
	req, err := e.loadRequest(ctx, domain, requestID)
	if err != nil {
		return nil, nil, nil, err
	}

	requester, err := e.identity.FindUser(ctx, req.RequesterID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("find requester: %w", err)
	}
	if requester == nil {
		return nil, nil, nil, fmt.Errorf("%w: requester %s", workflow.ErrNotFound, req.RequesterID)
	}

	chain := workflow.ResolveChain(req.Domain, requester.SeniorityLevel)
	return req, requester, chain, nil
}

// loadActor resolves the acting user
func (e *Engine) loadActor(ctx context.Context, actorID string) (*port.User, error) {
	actor, err := e.identity.FindUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("find actor: %w", err)
	}
	if actor == nil {
		return nil, fmt.Errorf("%w: user %s", workflow.ErrNotFound, actorID)
	}
	return actor, nil
}

// authorizeDecision applies the authorization precedence for a decision
// at the request's current stage. The explicit admin override, combined
// with the admin capability, short-circuits the gate.
func (e *Engine) authorizeDecision(actor *port.User, requester *port.User, req *entity.Request, chain workflow.Chain, adminOverride bool) error {
	if adminOverride {
		if !actor.Actor().IsAdmin() {
			return fmt.Errorf("%w: admin override requires admin capability", workflow.ErrForbidden)
		}
		return nil
	}
	return workflow.Authorize(actor.Actor(), workflow.Requester{
		ID:             requester.ID,
		SeniorityLevel: requester.SeniorityLevel,
		DepartmentID:   requester.DepartmentID,
	}, req.Stage, chain)
}

// decisionRole determines the role an approval is recorded under
func decisionRole(actor *port.User, step workflow.Step, adminOverride bool) workflow.Role {
	a := actor.Actor()
	switch {
	case adminOverride:
		return workflow.RoleAdmin
	case step.RequiredRole == workflow.RoleSupervisor && a.IsSupervisor():
		return workflow.RoleSupervisor
	case step.RequiredRole != "" && a.HasRole(step.RequiredRole):
		return step.RequiredRole
	case a.HasRole(workflow.RoleDGS):
		return workflow.RoleDGS
	default:
		return primaryRole(actor)
	}
}

// primaryRole returns the first role a user carries, empty if none
func primaryRole(user *port.User) workflow.Role {
	if len(user.Roles) > 0 {
		return user.Roles[0]
	}
	return ""
}

// touch upserts the acting user's participant trail entry
func (e *Engine) touch(ctx context.Context, requestID int64, userID string, role workflow.Role, action string) error {
	return e.participants.Upsert(ctx, &entity.Participant{
		RequestID:     requestID,
		UserID:        userID,
		Role:          role,
		LastAction:    action,
		LastTimestamp: time.Now(),
	})
}

// requireNotTerminal rejects transitions on rejected or completed requests
func requireNotTerminal(req *entity.Request) error {
	if req.IsTerminal() {
		return fmt.Errorf("%w: request %d is %s", workflow.ErrInvalidState, req.ID, req.Status)
	}
	return nil
}

// requireDecidable checks that the request is still awaiting a decision
// at the stage the caller is deciding. A nil request covers a row
// deleted between read and transaction.
func requireDecidable(req *entity.Request, stage workflow.Stage) error {
	if stage == "" {
		return fmt.Errorf("%w: the stage being decided is required", workflow.ErrValidation)
	}
	if req == nil {
		return fmt.Errorf("%w: request no longer exists", workflow.ErrNotFound)
	}
	if err := requireNotTerminal(req); err != nil {
		return err
	}
	if req.Status != workflow.StatusPending && req.Status != workflow.StatusCorrected {
		return fmt.Errorf("%w: request %d is %s, not awaiting a decision", workflow.ErrInvalidState, req.ID, req.Status)
	}
	if req.Stage != stage {
		return fmt.Errorf("%w: request %d stage already moved from %s to %s", workflow.ErrInvalidState, req.ID, stage, req.Stage)
	}
	return nil
}
