package port

import (
	"context"

	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// User is the identity facts the engine needs about a person
type User struct {
	ID             string
	Name           string
	Roles          []workflow.Role
	SeniorityLevel int
	DepartmentID   string
}

// Actor converts the user into the shape the authorization gate consumes
func (u *User) Actor() workflow.Actor {
	return workflow.Actor{
		ID:             u.ID,
		Roles:          u.Roles,
		SeniorityLevel: u.SeniorityLevel,
		DepartmentID:   u.DepartmentID,
	}
}

// IdentityProvider resolves users and role holders. Owned by an external
// identity subsystem; the engine consumes the contract only.
type IdentityProvider interface {
	FindUser(ctx context.Context, id string) (*User, error)
	FindUsersByRoleAndDepartment(ctx context.Context, role workflow.Role, departmentID string) ([]*User, error)
	FindSupervisorsByDepartment(ctx context.Context, departmentID string) ([]*User, error)
}

// InventoryStore exposes on-hand stock for ICT and Store fulfillment
type InventoryStore interface {
	GetOnHand(ctx context.Context, stockItemID int64) (int, error)
	Debit(ctx context.Context, stockItemID int64, quantity int) error
}

// Notifier is the abstract sink the lifecycle calls after every
// transition. Delivery failures must never fail the transition.
type Notifier interface {
	Notify(ctx context.Context, userID, kind string, requestID int64, message string) error
	BroadcastProgress(ctx context.Context, userIDs []string, payload map[string]interface{}) error
}
