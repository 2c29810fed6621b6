package workflow

import "testing"

func TestStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusRejected, true},
		{StatusCompleted, true},
		{StatusPending, false},
		{StatusApproved, false},
		{StatusCorrected, false},
		{StatusPartialFulfillment, false},
		{StatusFulfilled, false},
		{StatusAssigned, false},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestDomainIsValid(t *testing.T) {
	for _, d := range []Domain{DomainVehicle, DomainICT, DomainStore} {
		if !d.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", d)
		}
	}
	if Domain("FLEET").IsValid() {
		t.Error(`Domain("FLEET").IsValid() = true, want false`)
	}
}

func TestActorCapabilities(t *testing.T) {
	senior := Actor{ID: "u-1", SeniorityLevel: 14}
	if !senior.IsSupervisor() {
		t.Error("level 14 should qualify as supervisor")
	}

	junior := Actor{ID: "u-2", SeniorityLevel: 13}
	if junior.IsSupervisor() {
		t.Error("level 13 should not qualify as supervisor")
	}

	admin := Actor{ID: "u-3", Roles: []Role{RoleSO, RoleAdmin}}
	if !admin.IsAdmin() || !admin.HasRole(RoleSO) || admin.HasRole(RoleDGS) {
		t.Errorf("role lookup misbehaved for %v", admin.Roles)
	}
}
