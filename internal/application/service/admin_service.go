package service

import (
	"context"

	"github.com/ofisi/requestflow/internal/application/lifecycle"
	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
)

// AdminService carries the administrative operations that span domains
type AdminService struct {
	engine        *lifecycle.Engine
	notifications port.NotificationRepository
}

// NewAdminService creates an AdminService
func NewAdminService(engine *lifecycle.Engine, notifications port.NotificationRepository) *AdminService {
	return &AdminService{engine: engine, notifications: notifications}
}

// Reset deletes every request in every domain, their dependent rows and
// all notifications, as one transaction
func (s *AdminService) Reset(ctx context.Context, actorID string) error {
	return s.engine.DeleteAll(ctx, actorID)
}

// Notifications returns a request's outbox rows for auditing delivery
func (s *AdminService) Notifications(ctx context.Context, requestID int64) ([]*entity.Notification, error) {
	return s.notifications.GetByRequestID(ctx, requestID)
}
