package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
)

// RequestItemRepository implements port.RequestItemRepository on SQLite
type RequestItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestItemRepository creates a new request item repository
func NewRequestItemRepository(db *sql.DB, logger *zap.Logger) port.RequestItemRepository {
	return &RequestItemRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new line item
func (r *RequestItemRepository) Create(ctx context.Context, item *entity.RequestItem) error {
	query := `
		INSERT INTO request_items (
			request_id, stock_item_id, name, requested_quantity,
			approved_quantity, fulfilled_quantity, available, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		item.RequestID,
		item.StockItemID,
		item.Name,
		item.RequestedQuantity,
		item.ApprovedQuantity,
		item.FulfilledQuantity,
		item.Available,
		item.Note,
	)
	if err != nil {
		r.logger.Error("Failed to create request item", zap.Error(err))
		return fmt.Errorf("create request item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	item.ID = id
	return nil
}

// GetByID retrieves a line item by ID, nil when it does not exist
func (r *RequestItemRepository) GetByID(ctx context.Context, id int64) (*entity.RequestItem, error) {
	query := `
		SELECT id, request_id, stock_item_id, name, requested_quantity,
			approved_quantity, fulfilled_quantity, available, note
		FROM request_items
		WHERE id = ?
	`

	item, err := scanRequestItem(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get request item", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get request item: %w", err)
	}
	return item, nil
}

// GetByRequestID returns a request's line items in creation order
func (r *RequestItemRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.RequestItem, error) {
	query := `
		SELECT id, request_id, stock_item_id, name, requested_quantity,
			approved_quantity, fulfilled_quantity, available, note
		FROM request_items
		WHERE request_id = ?
		ORDER BY id
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get request items", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("get request items: %w", err)
	}
	defer rows.Close()

	var items []*entity.RequestItem
	for rows.Next() {
		item, err := scanRequestItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Update persists the ledger fields of a line item
func (r *RequestItemRepository) Update(ctx context.Context, item *entity.RequestItem) error {
	query := `
		UPDATE request_items SET
			approved_quantity = ?, fulfilled_quantity = ?, available = ?, note = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		item.ApprovedQuantity,
		item.FulfilledQuantity,
		item.Available,
		item.Note,
		item.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update request item", zap.Int64("id", item.ID), zap.Error(err))
		return fmt.Errorf("update request item: %w", err)
	}
	return nil
}

// DeleteByRequestID removes a request's line items
func (r *RequestItemRepository) DeleteByRequestID(ctx context.Context, requestID int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM request_items WHERE request_id = ?`, requestID)
	if err != nil {
		r.logger.Error("Failed to delete request items", zap.Int64("request_id", requestID), zap.Error(err))
		return fmt.Errorf("delete request items: %w", err)
	}
	return nil
}

func scanRequestItem(row rowScanner) (*entity.RequestItem, error) {
	var item entity.RequestItem
	var approved sql.NullInt64

	err := row.Scan(
		&item.ID,
		&item.RequestID,
		&item.StockItemID,
		&item.Name,
		&item.RequestedQuantity,
		&approved,
		&item.FulfilledQuantity,
		&item.Available,
		&item.Note,
	)
	if err != nil {
		return nil, err
	}

	if approved.Valid {
		value := int(approved.Int64)
		item.ApprovedQuantity = &value
	}

	return &item, nil
}

// Verify interface compliance
var _ port.RequestItemRepository = (*RequestItemRepository)(nil)
