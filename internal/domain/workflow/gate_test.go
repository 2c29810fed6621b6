package workflow

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	requester := Requester{ID: "u-jun", SeniorityLevel: 8, DepartmentID: "dep-1"}
	chain := ResolveChain(DomainVehicle, requester.SeniorityLevel)

	tests := []struct {
		name    string
		actor   Actor
		stage   Stage
		wantErr bool
	}{
		{
			name:  "exact role match at DGS review",
			actor: Actor{ID: "u-dgs", Roles: []Role{RoleDGS}},
			stage: StageDGSReview,
		},
		{
			name:  "exact role match at TO review",
			actor: Actor{ID: "u-to", Roles: []Role{RoleTO}},
			stage: StageTOReview,
		},
		{
			name:    "wrong role is forbidden",
			actor:   Actor{ID: "u-to", Roles: []Role{RoleTO}},
			stage:   StageDDGSReview,
			wantErr: true,
		},
		{
			name:  "DGS escalation valve covers any stage",
			actor: Actor{ID: "u-dgs", Roles: []Role{RoleDGS}},
			stage: StageDDGSReview,
		},
		{
			name:    "DGS valve does not cover the DGS's own request",
			actor:   Actor{ID: "u-jun", Roles: []Role{RoleDGS}},
			stage:   StageDDGSReview,
			wantErr: true,
		},
		{
			name:  "department supervisor at supervisor review",
			actor: Actor{ID: "u-sup", Roles: []Role{RoleSupervisor}, SeniorityLevel: 15, DepartmentID: "dep-1"},
			stage: StageSupervisorReview,
		},
		{
			name:    "supervisor from another department is forbidden",
			actor:   Actor{ID: "u-sup2", Roles: []Role{RoleSupervisor}, SeniorityLevel: 15, DepartmentID: "dep-2"},
			stage:   StageSupervisorReview,
			wantErr: true,
		},
		{
			name:    "supervisor role without seniority is forbidden",
			actor:   Actor{ID: "u-sup3", Roles: []Role{RoleSupervisor}, SeniorityLevel: 10, DepartmentID: "dep-1"},
			stage:   StageSupervisorReview,
			wantErr: true,
		},
		{
			name:    "stage outside the chain is forbidden",
			actor:   Actor{ID: "u-so", Roles: []Role{RoleSO}},
			stage:   StageSOReview,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, requester, tt.stage, chain)
			if (err != nil) != tt.wantErr {
				t.Errorf("Authorize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrForbidden) {
				t.Errorf("Authorize() error = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestAuthorizeStageWithoutRole(t *testing.T) {
	requester := Requester{ID: "u-1", SeniorityLevel: 16}
	chain := ResolveChain(DomainICT, requester.SeniorityLevel)

	admin := Actor{ID: "u-adm", Roles: []Role{RoleAdmin}}
	if err := Authorize(admin, requester, StageFulfillment, chain); !errors.Is(err, ErrForbidden) {
		t.Errorf("Authorize() at FULFILLMENT = %v, want ErrForbidden", err)
	}
}

func TestAuthorizeCancel(t *testing.T) {
	junior := Requester{ID: "u-jun", SeniorityLevel: 8, DepartmentID: "dep-1"}
	senior := Requester{ID: "u-sen", SeniorityLevel: 16, DepartmentID: "dep-1"}

	tests := []struct {
		name          string
		actor         Actor
		requester     Requester
		stage         Stage
		approvalCount int
		wantErr       bool
	}{
		{
			name:      "requester cancels own early request",
			actor:     Actor{ID: "u-jun"},
			requester: junior,
			stage:     StageSupervisorReview,
		},
		{
			name:          "requester blocked after first decision",
			actor:         Actor{ID: "u-jun"},
			requester:     junior,
			stage:         StageSupervisorReview,
			approvalCount: 1,
			wantErr:       true,
		},
		{
			name:      "requester blocked past DGS review",
			actor:     Actor{ID: "u-jun"},
			requester: junior,
			stage:     StageDDGSReview,
			wantErr:   true,
		},
		{
			name:      "department supervisor cancels junior request at SUBMITTED",
			actor:     Actor{ID: "u-sup", Roles: []Role{RoleSupervisor}, SeniorityLevel: 15, DepartmentID: "dep-1"},
			requester: junior,
			stage:     StageSubmitted,
		},
		{
			name:      "supervisor from another department cannot",
			actor:     Actor{ID: "u-sup2", Roles: []Role{RoleSupervisor}, SeniorityLevel: 15, DepartmentID: "dep-2"},
			requester: junior,
			stage:     StageSubmitted,
			wantErr:   true,
		},
		{
			name:      "DGS cancels a senior staff request at SUBMITTED",
			actor:     Actor{ID: "u-dgs", Roles: []Role{RoleDGS}},
			requester: senior,
			stage:     StageSubmitted,
		},
		{
			name:      "supervisor cannot cancel a senior staff request",
			actor:     Actor{ID: "u-sup", Roles: []Role{RoleSupervisor}, SeniorityLevel: 15, DepartmentID: "dep-1"},
			requester: senior,
			stage:     StageSubmitted,
			wantErr:   true,
		},
		{
			name:      "third party blocked past SUBMITTED",
			actor:     Actor{ID: "u-dgs", Roles: []Role{RoleDGS}},
			requester: junior,
			stage:     StageDGSReview,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeCancel(tt.actor, tt.requester, tt.stage, tt.approvalCount)
			if (err != nil) != tt.wantErr {
				t.Errorf("AuthorizeCancel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrForbidden) {
				t.Errorf("AuthorizeCancel() error = %v, want ErrForbidden", err)
			}
		})
	}
}
