package service

import (
	"context"

	"github.com/ofisi/requestflow/internal/application/lifecycle"
	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// StoreService exposes the store supplies request lifecycle
type StoreService struct {
	engine *lifecycle.Engine
}

// NewStoreService creates a StoreService
func NewStoreService(engine *lifecycle.Engine) *StoreService {
	return &StoreService{engine: engine}
}

func (s *StoreService) Submit(ctx context.Context, in *lifecycle.SubmitInput) (*entity.Request, error) {
	in.Domain = workflow.DomainStore
	return s.engine.Submit(ctx, in)
}

func (s *StoreService) Get(ctx context.Context, id int64) (*lifecycle.RequestDetail, error) {
	return s.engine.Get(ctx, workflow.DomainStore, id)
}

func (s *StoreService) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	filter.Domain = workflow.DomainStore
	return s.engine.List(ctx, filter)
}

func (s *StoreService) Approve(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error) {
	return s.engine.Approve(ctx, workflow.DomainStore, id, actorID, stage, comment, adminOverride)
}

func (s *StoreService) Reject(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error) {
	return s.engine.Reject(ctx, workflow.DomainStore, id, actorID, stage, comment, adminOverride)
}

func (s *StoreService) Correct(ctx context.Context, id int64, actorID, comment string, patch *lifecycle.CorrectionPatch) (*entity.Request, error) {
	return s.engine.Correct(ctx, workflow.DomainStore, id, actorID, comment, patch)
}

func (s *StoreService) Cancel(ctx context.Context, id int64, actorID, reason string) (*entity.Request, error) {
	return s.engine.Cancel(ctx, workflow.DomainStore, id, actorID, reason)
}

// Route is the one-time DGS fork at DGS_REVIEW: straight to SO_REVIEW,
// or down the default DDGS/ADGS path
func (s *StoreService) Route(ctx context.Context, id int64, actorID string, directToSO bool) (*entity.Request, error) {
	return s.engine.Route(ctx, id, actorID, directToSO)
}

// Fulfill debits stock against the request's approved line items
func (s *StoreService) Fulfill(ctx context.Context, id int64, actorID string, lines []lifecycle.FulfillLine) (*entity.Request, error) {
	return s.engine.Fulfill(ctx, workflow.DomainStore, id, actorID, lines)
}

func (s *StoreService) SetPriority(ctx context.Context, id int64, actorID string, priority bool) (*entity.Request, error) {
	return s.engine.SetPriority(ctx, workflow.DomainStore, id, actorID, priority)
}

func (s *StoreService) Delete(ctx context.Context, id int64, actorID string) error {
	return s.engine.Delete(ctx, workflow.DomainStore, id, actorID)
}
