package workflow

// Role is an organizational role that can be required at an approval stage.
// Supervisor is not a stored role string: it is a capability derived from
// seniority level and department membership, see Actor.IsSupervisor.
type Role string

const (
	RoleSupervisor Role = "SUPERVISOR"
	RoleDGS        Role = "DGS"
	RoleDDGS       Role = "DDGS"
	RoleADGS       Role = "ADGS"
	RoleTO         Role = "TO"
	RoleSO         Role = "SO"
	RoleDDICT      Role = "DDICT"
	RoleAdmin      Role = "ADMIN"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// SeniorityThreshold is the seniority level at or above which a requester
// is senior staff: supervisor review is skipped for them, and the user
// themselves qualifies as a supervisor for their department.
const SeniorityThreshold = 14

// Actor is the acting user as seen by the authorization rules
type Actor struct {
	ID             string
	Roles          []Role
	SeniorityLevel int
	DepartmentID   string
}

// HasRole returns true if the actor carries the given role
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin returns true if the actor carries the admin capability
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// IsSupervisor returns true if the actor qualifies as a supervisor.
// Supervisor eligibility is a seniority threshold, not a role string.
func (a Actor) IsSupervisor() bool {
	return a.SeniorityLevel >= SeniorityThreshold
}
