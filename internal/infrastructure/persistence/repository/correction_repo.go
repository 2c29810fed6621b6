package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
)

// CorrectionRepository implements port.CorrectionRepository on SQLite
type CorrectionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCorrectionRepository creates a new correction repository
func NewCorrectionRepository(db *sql.DB, logger *zap.Logger) port.CorrectionRepository {
	return &CorrectionRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends one correction record
func (r *CorrectionRepository) Create(ctx context.Context, correction *entity.Correction) error {
	query := `
		INSERT INTO corrections (
			request_id, requested_by, role, comment, resolved, timestamp
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		correction.RequestID,
		correction.RequestedBy,
		correction.Role,
		correction.Comment,
		correction.Resolved,
		correction.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create correction", zap.Error(err))
		return fmt.Errorf("create correction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	correction.ID = id
	return nil
}

// GetByRequestID returns a request's corrections in creation order
func (r *CorrectionRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Correction, error) {
	query := `
		SELECT id, request_id, requested_by, role, comment, resolved, timestamp
		FROM corrections
		WHERE request_id = ?
		ORDER BY id
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get corrections", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("get corrections: %w", err)
	}
	defer rows.Close()

	var corrections []*entity.Correction
	for rows.Next() {
		var c entity.Correction
		err := rows.Scan(
			&c.ID,
			&c.RequestID,
			&c.RequestedBy,
			&c.Role,
			&c.Comment,
			&c.Resolved,
			&c.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		corrections = append(corrections, &c)
	}

	return corrections, rows.Err()
}

// ResolveOpen marks all of a request's unresolved corrections resolved
func (r *CorrectionRepository) ResolveOpen(ctx context.Context, requestID int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx,
		`UPDATE corrections SET resolved = 1 WHERE request_id = ? AND resolved = 0`, requestID)
	if err != nil {
		r.logger.Error("Failed to resolve corrections", zap.Int64("request_id", requestID), zap.Error(err))
		return fmt.Errorf("resolve corrections: %w", err)
	}
	return nil
}

// DeleteByRequestID removes a request's corrections
func (r *CorrectionRepository) DeleteByRequestID(ctx context.Context, requestID int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM corrections WHERE request_id = ?`, requestID)
	if err != nil {
		r.logger.Error("Failed to delete corrections", zap.Int64("request_id", requestID), zap.Error(err))
		return fmt.Errorf("delete corrections: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.CorrectionRepository = (*CorrectionRepository)(nil)
