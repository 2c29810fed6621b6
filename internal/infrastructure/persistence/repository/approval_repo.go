package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
)

// ApprovalRepository implements port.ApprovalRepository on SQLite.
// Approval rows are append-only: there is no update statement here.
type ApprovalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends one decision to a request's approval history
func (r *ApprovalRepository) Create(ctx context.Context, approval *entity.Approval) error {
	query := `
		INSERT INTO approvals (
			request_id, approver_id, role, stage, decision, comment, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		approval.RequestID,
		approval.ApproverID,
		approval.Role,
		approval.Stage,
		approval.Decision,
		approval.Comment,
		approval.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create approval", zap.Error(err))
		return fmt.Errorf("create approval: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	approval.ID = id
	return nil
}

// GetByRequestID returns a request's approvals in decision order
func (r *ApprovalRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Approval, error) {
	query := `
		SELECT id, request_id, approver_id, role, stage, decision, comment, timestamp
		FROM approvals
		WHERE request_id = ?
		ORDER BY id
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get approvals", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("get approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*entity.Approval
	for rows.Next() {
		var a entity.Approval
		err := rows.Scan(
			&a.ID,
			&a.RequestID,
			&a.ApproverID,
			&a.Role,
			&a.Stage,
			&a.Decision,
			&a.Comment,
			&a.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		approvals = append(approvals, &a)
	}

	return approvals, rows.Err()
}

// CountByRequestID returns the number of decisions on a request
func (r *ApprovalRepository) CountByRequestID(ctx context.Context, requestID int64) (int, error) {
	var count int
	err := getExecutor(ctx, r.db).
		QueryRowContext(ctx, `SELECT COUNT(*) FROM approvals WHERE request_id = ?`, requestID).
		Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count approvals", zap.Int64("request_id", requestID), zap.Error(err))
		return 0, fmt.Errorf("count approvals: %w", err)
	}
	return count, nil
}

// DeleteByRequestID removes a request's approval history; used only by
// request deletion, never by a lifecycle transition
func (r *ApprovalRepository) DeleteByRequestID(ctx context.Context, requestID int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM approvals WHERE request_id = ?`, requestID)
	if err != nil {
		r.logger.Error("Failed to delete approvals", zap.Int64("request_id", requestID), zap.Error(err))
		return fmt.Errorf("delete approvals: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.ApprovalRepository = (*ApprovalRepository)(nil)
