package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
)

// ParticipantRepository implements port.ParticipantRepository on SQLite
type ParticipantRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *sql.DB, logger *zap.Logger) port.ParticipantRepository {
	return &ParticipantRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert keeps one trail entry per user and request: a repeat
// involvement overwrites role, action and timestamp in place
func (r *ParticipantRepository) Upsert(ctx context.Context, participant *entity.Participant) error {
	query := `
		INSERT INTO participants (request_id, user_id, role, last_action, last_timestamp)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(request_id, user_id) DO UPDATE SET
			role = excluded.role,
			last_action = excluded.last_action,
			last_timestamp = excluded.last_timestamp
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		participant.RequestID,
		participant.UserID,
		participant.Role,
		participant.LastAction,
		participant.LastTimestamp,
	)
	if err != nil {
		r.logger.Error("Failed to upsert participant",
			zap.Int64("request_id", participant.RequestID),
			zap.String("user_id", participant.UserID),
			zap.Error(err))
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

// GetByRequestID returns a request's participant trail
func (r *ParticipantRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Participant, error) {
	query := `
		SELECT request_id, user_id, role, last_action, last_timestamp
		FROM participants
		WHERE request_id = ?
		ORDER BY last_timestamp
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get participants", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("get participants: %w", err)
	}
	defer rows.Close()

	var participants []*entity.Participant
	for rows.Next() {
		var p entity.Participant
		err := rows.Scan(
			&p.RequestID,
			&p.UserID,
			&p.Role,
			&p.LastAction,
			&p.LastTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, &p)
	}

	return participants, rows.Err()
}

// DeleteByRequestID removes a request's participant trail
func (r *ParticipantRepository) DeleteByRequestID(ctx context.Context, requestID int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM participants WHERE request_id = ?`, requestID)
	if err != nil {
		r.logger.Error("Failed to delete participants", zap.Int64("request_id", requestID), zap.Error(err))
		return fmt.Errorf("delete participants: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.ParticipantRepository = (*ParticipantRepository)(nil)
