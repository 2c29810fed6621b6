package port

import (
	"context"

	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// RequestFilter narrows request listings. Zero values mean "any".
type RequestFilter struct {
	Domain      workflow.Domain
	Stage       workflow.Stage
	Status      workflow.Status
	RequesterID string
	Limit       int
	Offset      int
}

// RequestRepository defines persistence operations for Request
type RequestRepository interface {
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, id int64) (*entity.Request, error)
	Update(ctx context.Context, req *entity.Request) error
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// ApprovalRepository defines persistence operations for the append-only
// approval history. There is deliberately no update or single delete.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.Approval) error
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Approval, error)
	CountByRequestID(ctx context.Context, requestID int64) (int, error)
	DeleteByRequestID(ctx context.Context, requestID int64) error
}

// CorrectionRepository defines persistence operations for Correction records
type CorrectionRepository interface {
	Create(ctx context.Context, correction *entity.Correction) error
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Correction, error)
	ResolveOpen(ctx context.Context, requestID int64) error
	DeleteByRequestID(ctx context.Context, requestID int64) error
}

// ParticipantRepository defines persistence operations for the
// participant trail. Upsert keeps one row per user and request.
type ParticipantRepository interface {
	Upsert(ctx context.Context, participant *entity.Participant) error
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Participant, error)
	DeleteByRequestID(ctx context.Context, requestID int64) error
}

// RequestItemRepository defines persistence operations for request line items
type RequestItemRepository interface {
	Create(ctx context.Context, item *entity.RequestItem) error
	GetByID(ctx context.Context, id int64) (*entity.RequestItem, error)
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.RequestItem, error)
	Update(ctx context.Context, item *entity.RequestItem) error
	DeleteByRequestID(ctx context.Context, requestID int64) error
}

// NotificationRepository defines persistence operations for the
// notification outbox
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Notification, error)
	ListFailed(ctx context.Context, limit int) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
	DeleteByRequestID(ctx context.Context, requestID int64) error
	DeleteAll(ctx context.Context) error
}

// TransactionManager handles database transactions. Nested calls reuse
// the transaction already carried by the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
