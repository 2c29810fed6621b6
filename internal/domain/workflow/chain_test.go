package workflow

import "testing"

func stages(c Chain) []Stage {
	out := make([]Stage, len(c))
	for i, step := range c {
		out[i] = step.Stage
	}
	return out
}

func TestResolveChain(t *testing.T) {
	tests := []struct {
		name           string
		domain         Domain
		seniorityLevel int
		want           []Stage
	}{
		{
			name:           "vehicle below threshold includes supervisor review",
			domain:         DomainVehicle,
			seniorityLevel: 8,
			want: []Stage{
				StageSubmitted, StageSupervisorReview,
				StageDGSReview, StageDDGSReview, StageADGSReview, StageTOReview,
			},
		},
		{
			name:           "vehicle at threshold skips supervisor review",
			domain:         DomainVehicle,
			seniorityLevel: 14,
			want: []Stage{
				StageSubmitted,
				StageDGSReview, StageDDGSReview, StageADGSReview, StageTOReview,
			},
		},
		{
			name:           "ict below threshold",
			domain:         DomainICT,
			seniorityLevel: 13,
			want: []Stage{
				StageSubmitted, StageSupervisorReview,
				StageDDICTReview, StageDGSReview, StageSOReview, StageFulfillment,
			},
		},
		{
			name:           "ict above threshold",
			domain:         DomainICT,
			seniorityLevel: 15,
			want: []Stage{
				StageSubmitted,
				StageDDICTReview, StageDGSReview, StageSOReview, StageFulfillment,
			},
		},
		{
			name:           "store below threshold",
			domain:         DomainStore,
			seniorityLevel: 1,
			want: []Stage{
				StageSubmitted, StageSupervisorReview,
				StageDGSReview, StageDDGSReview, StageADGSReview, StageSOReview, StageFulfillment,
			},
		},
		{
			name:           "store senior",
			domain:         DomainStore,
			seniorityLevel: 20,
			want: []Stage{
				StageSubmitted,
				StageDGSReview, StageDDGSReview, StageADGSReview, StageSOReview, StageFulfillment,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stages(ResolveChain(tt.domain, tt.seniorityLevel))
			if len(got) != len(tt.want) {
				t.Fatalf("ResolveChain() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ResolveChain()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolveChainIsPure(t *testing.T) {
	a := ResolveChain(DomainStore, 5)
	b := ResolveChain(DomainStore, 5)

	if len(a) != len(b) {
		t.Fatalf("identical inputs produced different chain lengths: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("step %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestChainNext(t *testing.T) {
	chain := ResolveChain(DomainVehicle, 10)

	next, ok := chain.Next(StageSubmitted)
	if !ok || next != StageSupervisorReview {
		t.Errorf("Next(SUBMITTED) = %v, %v; want SUPERVISOR_REVIEW, true", next, ok)
	}

	next, ok = chain.Next(StageADGSReview)
	if !ok || next != StageTOReview {
		t.Errorf("Next(ADGS_REVIEW) = %v, %v; want TO_REVIEW, true", next, ok)
	}

	if _, ok := chain.Next(StageTOReview); ok {
		t.Error("Next(TO_REVIEW) should report the end of the vehicle chain")
	}

	if _, ok := chain.Next(StageSOReview); ok {
		t.Error("Next() on a stage outside the chain should return false")
	}
}

func TestChainFirst(t *testing.T) {
	if got := ResolveChain(DomainVehicle, 5).First(); got != StageSupervisorReview {
		t.Errorf("First() for junior requester = %v, want SUPERVISOR_REVIEW", got)
	}
	if got := ResolveChain(DomainVehicle, 16).First(); got != StageDGSReview {
		t.Errorf("First() for senior requester = %v, want DGS_REVIEW", got)
	}
	if got := ResolveChain(DomainICT, 16).First(); got != StageDDICTReview {
		t.Errorf("First() for senior ICT requester = %v, want DDICT_REVIEW", got)
	}
}

func TestChainRoleFor(t *testing.T) {
	chain := ResolveChain(DomainStore, 5)

	if got := chain.RoleFor(StageSupervisorReview); got != RoleSupervisor {
		t.Errorf("RoleFor(SUPERVISOR_REVIEW) = %v, want SUPERVISOR", got)
	}
	if got := chain.RoleFor(StageSOReview); got != RoleSO {
		t.Errorf("RoleFor(SO_REVIEW) = %v, want SO", got)
	}
	if got := chain.RoleFor(StageFulfillment); got != "" {
		t.Errorf("RoleFor(FULFILLMENT) = %v, want empty", got)
	}
	if got := chain.RoleFor(StageTOReview); got != "" {
		t.Errorf("RoleFor on a stage outside the chain = %v, want empty", got)
	}
}
