package service

import (
	"context"

	"github.com/ofisi/requestflow/internal/application/lifecycle"
	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// VehicleService exposes the vehicle trip request lifecycle. It is a
// thin facade: all semantics live in the shared engine, the facade only
// pins the domain and the domain-specific operation set.
type VehicleService struct {
	engine *lifecycle.Engine
}

// NewVehicleService creates a VehicleService
func NewVehicleService(engine *lifecycle.Engine) *VehicleService {
	return &VehicleService{engine: engine}
}

func (s *VehicleService) Submit(ctx context.Context, in *lifecycle.SubmitInput) (*entity.Request, error) {
	in.Domain = workflow.DomainVehicle
	return s.engine.Submit(ctx, in)
}

func (s *VehicleService) Get(ctx context.Context, id int64) (*lifecycle.RequestDetail, error) {
	return s.engine.Get(ctx, workflow.DomainVehicle, id)
}

func (s *VehicleService) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	filter.Domain = workflow.DomainVehicle
	return s.engine.List(ctx, filter)
}

func (s *VehicleService) Approve(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error) {
	return s.engine.Approve(ctx, workflow.DomainVehicle, id, actorID, stage, comment, adminOverride)
}

func (s *VehicleService) Reject(ctx context.Context, id int64, actorID string, stage workflow.Stage, comment string, adminOverride bool) (*entity.Request, error) {
	return s.engine.Reject(ctx, workflow.DomainVehicle, id, actorID, stage, comment, adminOverride)
}

func (s *VehicleService) Correct(ctx context.Context, id int64, actorID, comment string, patch *lifecycle.CorrectionPatch) (*entity.Request, error) {
	return s.engine.Correct(ctx, workflow.DomainVehicle, id, actorID, comment, patch)
}

func (s *VehicleService) Cancel(ctx context.Context, id int64, actorID, reason string) (*entity.Request, error) {
	return s.engine.Cancel(ctx, workflow.DomainVehicle, id, actorID, reason)
}

// Assign binds a vehicle and driver to an approved trip request
func (s *VehicleService) Assign(ctx context.Context, id int64, actorID string, vehicleID, driverID int64) (*entity.Request, error) {
	return s.engine.Assign(ctx, id, actorID, vehicleID, driverID)
}

func (s *VehicleService) SetPriority(ctx context.Context, id int64, actorID string, priority bool) (*entity.Request, error) {
	return s.engine.SetPriority(ctx, workflow.DomainVehicle, id, actorID, priority)
}

func (s *VehicleService) Delete(ctx context.Context, id int64, actorID string) error {
	return s.engine.Delete(ctx, workflow.DomainVehicle, id, actorID)
}
