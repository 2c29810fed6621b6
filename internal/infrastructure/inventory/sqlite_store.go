package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/infrastructure/persistence/sqlite"
)

// SQLiteStore tracks on-hand stock in the stock_items table
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new inventory store backed by SQLite
func NewSQLiteStore(db *sql.DB, logger *zap.Logger) port.InventoryStore {
	return &SQLiteStore{
		db:     db,
		logger: logger,
	}
}

// GetOnHand returns the current on-hand quantity for a stock item.
// An unknown item reads as zero stock rather than an error.
func (s *SQLiteStore) GetOnHand(ctx context.Context, stockItemID int64) (int, error) {
	var onHand int
	err := s.executor(ctx).QueryRowContext(ctx,
		`SELECT on_hand FROM stock_items WHERE id = ?`, stockItemID,
	).Scan(&onHand)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		s.logger.Error("Failed to read stock level", zap.Int64("stock_item_id", stockItemID), zap.Error(err))
		return 0, fmt.Errorf("get on hand: %w", err)
	}
	return onHand, nil
}

// Debit decrements on-hand stock. The guard in the WHERE clause keeps
// the level from going negative under concurrent fulfillment.
func (s *SQLiteStore) Debit(ctx context.Context, stockItemID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("debit quantity must be positive, got %d", quantity)
	}

	result, err := s.executor(ctx).ExecContext(ctx,
		`UPDATE stock_items SET on_hand = on_hand - ? WHERE id = ? AND on_hand >= ?`,
		quantity, stockItemID, quantity,
	)
	if err != nil {
		s.logger.Error("Failed to debit stock", zap.Int64("stock_item_id", stockItemID), zap.Error(err))
		return fmt.Errorf("debit stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insufficient stock for item %d", stockItemID)
	}
	return nil
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// executor joins an in-flight transaction when one is carried on the
// context, so debits commit or roll back with the fulfillment they
// belong to.
func (s *SQLiteStore) executor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

// Verify interface compliance
var _ port.InventoryStore = (*SQLiteStore)(nil)
