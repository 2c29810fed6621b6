package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
)

// RequestRepository implements port.RequestRepository on SQLite
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, logger *zap.Logger) port.RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

const requestColumns = `
	id, domain, requester_id, stage, status, purpose, priority,
	direct_to_so, destination, trip_start, trip_end, passenger_count,
	vehicle_id, driver_id, created_at, updated_at
`

// Create inserts a new request
func (r *RequestRepository) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (
			domain, requester_id, stage, status, purpose, priority,
			direct_to_so, destination, trip_start, trip_end,
			passenger_count, vehicle_id, driver_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		req.Domain,
		req.RequesterID,
		req.Stage,
		req.Status,
		req.Purpose,
		req.Priority,
		req.DirectToSO,
		req.Destination,
		req.TripStart,
		req.TripEnd,
		req.PassengerCount,
		req.VehicleID,
		req.DriverID,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	req.ID = id
	return nil
}

// GetByID retrieves a request by ID, nil when it does not exist
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = ?`

	req, err := scanRequest(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get request", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

// Update persists the mutable fields of a request
func (r *RequestRepository) Update(ctx context.Context, req *entity.Request) error {
	query := `
		UPDATE requests SET
			stage = ?, status = ?, purpose = ?, priority = ?,
			direct_to_so = ?, destination = ?, trip_start = ?, trip_end = ?,
			passenger_count = ?, vehicle_id = ?, driver_id = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		req.Stage,
		req.Status,
		req.Purpose,
		req.Priority,
		req.DirectToSO,
		req.Destination,
		req.TripStart,
		req.TripEnd,
		req.PassengerCount,
		req.VehicleID,
		req.DriverID,
		req.UpdatedAt,
		req.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update request", zap.Int64("id", req.ID), zap.Error(err))
		return fmt.Errorf("update request: %w", err)
	}
	return nil
}

// List returns requests matching the filter, newest first, priority
// requests ahead of the rest
func (r *RequestRepository) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE 1=1`
	args := make([]interface{}, 0, 6)

	if filter.Domain != "" {
		query += " AND domain = ?"
		args = append(args, filter.Domain)
	}
	if filter.Stage != "" {
		query += " AND stage = ?"
		args = append(args, filter.Stage)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.RequesterID != "" {
		query += " AND requester_id = ?"
		args = append(args, filter.RequesterID)
	}

	query += " ORDER BY priority DESC, created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list requests", zap.Error(err))
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// Delete removes a request; dependent rows cascade via foreign keys
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete request", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete request: %w", err)
	}
	return nil
}

// DeleteAll removes every request across all domains
func (r *RequestRepository) DeleteAll(ctx context.Context) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM requests`)
	if err != nil {
		r.logger.Error("Failed to delete all requests", zap.Error(err))
		return fmt.Errorf("delete all requests: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*entity.Request, error) {
	var req entity.Request
	var tripStart, tripEnd sql.NullTime
	var vehicleID, driverID sql.NullInt64

	err := row.Scan(
		&req.ID,
		&req.Domain,
		&req.RequesterID,
		&req.Stage,
		&req.Status,
		&req.Purpose,
		&req.Priority,
		&req.DirectToSO,
		&req.Destination,
		&tripStart,
		&tripEnd,
		&req.PassengerCount,
		&vehicleID,
		&driverID,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tripStart.Valid {
		req.TripStart = &tripStart.Time
	}
	if tripEnd.Valid {
		req.TripEnd = &tripEnd.Time
	}
	if vehicleID.Valid {
		req.VehicleID = &vehicleID.Int64
	}
	if driverID.Valid {
		req.DriverID = &driverID.Int64
	}

	return &req, nil
}

// Verify interface compliance
var _ port.RequestRepository = (*RequestRepository)(nil)
