package service

import (
	"context"

	"github.com/ofisi/requestflow/internal/application/lifecycle"
	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// ICTService exposes the ICT equipment request lifecycle
type ICTService struct {
	engine *lifecycle.Engine
}

// NewICTService creates an ICTService
func NewICTService(engine *lifecycle.Engine) *ICTService {
	return &ICTService{engine: engine}
}

func (s *ICTService) Submit(ctx context.Context, in *lifecycle.SubmitInput) (*entity.Request, error) {
	in.Domain = workflow.DomainICT
	return s.engine.Submit(ctx, in)
}

func (s *ICTService) Get(ctx context.Context, id int64) (*lifecycle.RequestDetail, error) {
	return s.engine.Get(ctx, workflow.DomainICT, id)
}

func (s *ICTService) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	filter.Domain = workflow.DomainICT
	return s.engine.List(ctx, filter)
}

func (s *ICTService) Approve(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error) {
	return s.engine.Approve(ctx, workflow.DomainICT, id, actorID, stage, comment, adminOverride)
}

func (s *ICTService) Reject(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error) {
	return s.engine.Reject(ctx, workflow.DomainICT, id, actorID, stage, comment, adminOverride)
}

func (s *ICTService) Correct(ctx context.Context, id int64, actorID, comment string, patch *lifecycle.CorrectionPatch) (*entity.Request, error) {
	return s.engine.Correct(ctx, workflow.DomainICT, id, actorID, comment, patch)
}

func (s *ICTService) Cancel(ctx context.Context, id int64, actorID, reason string) (*entity.Request, error) {
	return s.engine.Cancel(ctx, workflow.DomainICT, id, actorID, reason)
}

// Fulfill debits stock against the request's approved line items
func (s *ICTService) Fulfill(ctx context.Context, id int64, actorID string, lines []lifecycle.FulfillLine) (*entity.Request, error) {
	return s.engine.Fulfill(ctx, workflow.DomainICT, id, actorID, lines)
}

// AdjustQuantities is the DDICT per-line approved-quantity adjustment
func (s *ICTService) AdjustQuantities(ctx context.Context, id int64, actorID string, changes []lifecycle.QuantityChange) (*entity.Request, error) {
	return s.engine.AdjustQuantities(ctx, id, actorID, changes)
}

func (s *ICTService) SetPriority(ctx context.Context, id int64, actorID string, priority bool) (*entity.Request, error) {
	return s.engine.SetPriority(ctx, workflow.DomainICT, id, actorID, priority)
}

func (s *ICTService) Delete(ctx context.Context, id int64, actorID string) error {
	return s.engine.Delete(ctx, workflow.DomainICT, id, actorID)
}
