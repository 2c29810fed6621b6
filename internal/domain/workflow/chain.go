package workflow

// Step is a single checkpoint in a resolved approval chain. RequiredRole
// is empty for stages with no human actor (SUBMITTED, FULFILLMENT).
type Step struct {
	Stage        Stage
	RequiredRole Role
}

// Chain is the ordered sequence of stages a request passes through
type Chain []Step

// domainSuffixes holds the fixed per-domain stage order after the
// seniority-dependent prefix.
var domainSuffixes = map[Domain][]Step{
	DomainVehicle: {
		{Stage: StageDGSReview, RequiredRole: RoleDGS},
		{Stage: StageDDGSReview, RequiredRole: RoleDDGS},
		{Stage: StageADGSReview, RequiredRole: RoleADGS},
		{Stage: StageTOReview, RequiredRole: RoleTO},
	},
	DomainICT: {
		{Stage: StageDDICTReview, RequiredRole: RoleDDICT},
		{Stage: StageDGSReview, RequiredRole: RoleDGS},
		{Stage: StageSOReview, RequiredRole: RoleSO},
		{Stage: StageFulfillment},
	},
	DomainStore: {
		{Stage: StageDGSReview, RequiredRole: RoleDGS},
		{Stage: StageDDGSReview, RequiredRole: RoleDDGS},
		{Stage: StageADGSReview, RequiredRole: RoleADGS},
		{Stage: StageSOReview, RequiredRole: RoleSO},
		{Stage: StageFulfillment},
	},
}

// ResolveChain computes the ordered approval chain for a request domain
// and the requester's seniority level. Requesters below the seniority
// threshold go through supervisor review immediately after submission;
// senior staff skip it. Pure: identical inputs yield identical output.
func ResolveChain(domain Domain, seniorityLevel int) Chain {
	suffix := domainSuffixes[domain]

	chain := make(Chain, 0, len(suffix)+2)
	chain = append(chain, Step{Stage: StageSubmitted})
	if seniorityLevel < SeniorityThreshold {
		chain = append(chain, Step{Stage: StageSupervisorReview, RequiredRole: RoleSupervisor})
	}
	chain = append(chain, suffix...)

	return chain
}

// StepFor returns the chain step for the given stage
func (c Chain) StepFor(stage Stage) (Step, bool) {
	for _, step := range c {
		if step.Stage == stage {
			return step, true
		}
	}
	return Step{}, false
}

// Contains returns true if the stage belongs to the chain
func (c Chain) Contains(stage Stage) bool {
	_, ok := c.StepFor(stage)
	return ok
}

// Next returns the stage that follows the given stage in the chain.
// The second return value is false when the given stage is the last
// one, or is not part of the chain at all.
func (c Chain) Next(stage Stage) (Stage, bool) {
	for i, step := range c {
		if step.Stage == stage {
			if i+1 < len(c) {
				return c[i+1].Stage, true
			}
			return "", false
		}
	}
	return "", false
}

// First returns the first stage with a human actor. A freshly submitted
// request auto-advances here so it is immediately queryable as pending
// at a concrete review stage.
func (c Chain) First() Stage {
	for _, step := range c {
		if step.Stage != StageSubmitted {
			return step.Stage
		}
	}
	return StageSubmitted
}

// RoleFor returns the role required at the given stage, empty if the
// stage has no required role or is not in the chain.
func (c Chain) RoleFor(stage Stage) Role {
	step, ok := c.StepFor(stage)
	if !ok {
		return ""
	}
	return step.RequiredRole
}
