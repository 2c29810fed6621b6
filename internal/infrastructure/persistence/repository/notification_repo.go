package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
)

// NotificationRepository implements port.NotificationRepository on SQLite
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create records an outbound notification before dispatch
func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	if notification.Status == "" {
		notification.Status = entity.NotificationStatusPending
	}

	query := `
		INSERT INTO notifications (user_id, kind, request_id, message, status, error_msg, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		notification.UserID,
		notification.Kind,
		notification.RequestID,
		notification.Message,
		notification.Status,
		notification.ErrorMsg,
		notification.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return fmt.Errorf("create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	notification.ID = id
	return nil
}

// GetByRequestID returns a request's notifications, newest first
func (r *NotificationRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, kind, request_id, message, status, error_msg, created_at, sent_at
		FROM notifications
		WHERE request_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get notifications", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var sentAt sql.NullTime

		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Kind,
			&n.RequestID,
			&n.Message,
			&n.Status,
			&n.ErrorMsg,
			&n.CreatedAt,
			&sentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// ListFailed returns the oldest failed notifications, up to limit
func (r *NotificationRepository) ListFailed(ctx context.Context, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, kind, request_id, message, status, error_msg, created_at, sent_at
		FROM notifications
		WHERE status = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, entity.NotificationStatusFailed, limit)
	if err != nil {
		r.logger.Error("Failed to list failed notifications", zap.Error(err))
		return nil, fmt.Errorf("list failed notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var sentAt sql.NullTime

		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Kind,
			&n.RequestID,
			&n.Message,
			&n.Status,
			&n.ErrorMsg,
			&n.CreatedAt,
			&sentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkSent records a successful dispatch
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET status = ?, sent_at = ?, error_msg = '' WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, entity.NotificationStatusSent, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to mark notification sent", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed records a dispatch failure without surfacing it to the caller's flow
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	query := `UPDATE notifications SET status = ?, error_msg = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, entity.NotificationStatusFailed, errorMsg, id)
	if err != nil {
		r.logger.Error("Failed to mark notification failed", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return nil
}

// DeleteByRequestID removes a request's notifications
func (r *NotificationRepository) DeleteByRequestID(ctx context.Context, requestID int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM notifications WHERE request_id = ?`, requestID)
	if err != nil {
		r.logger.Error("Failed to delete notifications", zap.Int64("request_id", requestID), zap.Error(err))
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}

// DeleteAll clears the notification table
func (r *NotificationRepository) DeleteAll(ctx context.Context) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM notifications`)
	if err != nil {
		r.logger.Error("Failed to delete all notifications", zap.Error(err))
		return fmt.Errorf("delete all notifications: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
