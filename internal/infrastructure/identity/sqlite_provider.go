package identity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// SQLiteProvider resolves users from the local users table. Roles are
// stored as a comma separated list so one account can hold several.
type SQLiteProvider struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteProvider creates a new identity provider backed by SQLite
func NewSQLiteProvider(db *sql.DB, logger *zap.Logger) port.IdentityProvider {
	return &SQLiteProvider{
		db:     db,
		logger: logger,
	}
}

const userColumns = "id, name, roles, seniority_level, department_id"

// FindUser retrieves one user by ID, nil when unknown
func (p *SQLiteProvider) FindUser(ctx context.Context, id string) (*port.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns)

	user, err := scanUser(p.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		p.logger.Error("Failed to find user", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// FindUsersByRoleAndDepartment returns holders of a role, optionally
// narrowed to one department
func (p *SQLiteProvider) FindUsersByRoleAndDepartment(ctx context.Context, role workflow.Role, departmentID string) ([]*port.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE (',' || roles || ',') LIKE ?", userColumns)
	args := []interface{}{"%," + string(role) + ",%"}

	if departmentID != "" {
		query += " AND department_id = ?"
		args = append(args, departmentID)
	}
	query += " ORDER BY id"

	return p.queryUsers(ctx, query, args...)
}

// FindSupervisorsByDepartment returns a department's supervisor-role
// holders whose seniority clears the review threshold
func (p *SQLiteProvider) FindSupervisorsByDepartment(ctx context.Context, departmentID string) ([]*port.User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM users WHERE (',' || roles || ',') LIKE ? AND department_id = ? AND seniority_level >= ? ORDER BY id",
		userColumns,
	)
	return p.queryUsers(ctx, query,
		"%,"+string(workflow.RoleSupervisor)+",%",
		departmentID,
		workflow.SeniorityThreshold,
	)
}

func (p *SQLiteProvider) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*port.User, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		p.logger.Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*port.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*port.User, error) {
	var user port.User
	var roles string

	err := row.Scan(&user.ID, &user.Name, &roles, &user.SeniorityLevel, &user.DepartmentID)
	if err != nil {
		return nil, err
	}

	for _, raw := range strings.Split(roles, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		user.Roles = append(user.Roles, workflow.Role(raw))
	}

	return &user, nil
}

// Verify interface compliance
var _ port.IdentityProvider = (*SQLiteProvider)(nil)
