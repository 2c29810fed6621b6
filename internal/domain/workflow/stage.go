package workflow

// Domain identifies the kind of organizational request
type Domain string

const (
	DomainVehicle Domain = "VEHICLE"
	DomainICT     Domain = "ICT"
	DomainStore   Domain = "STORE"
)

var validDomains = map[Domain]bool{
	DomainVehicle: true,
	DomainICT:     true,
	DomainStore:   true,
}

// String returns the string representation of the domain
func (d Domain) String() string {
	return string(d)
}

// IsValid returns true if the domain is one of the defined request domains
func (d Domain) IsValid() bool {
	return validDomains[d]
}

// Stage represents a checkpoint in a request's approval chain
type Stage string

const (
	StageSubmitted        Stage = "SUBMITTED"
	StageSupervisorReview Stage = "SUPERVISOR_REVIEW"
	StageDGSReview        Stage = "DGS_REVIEW"
	StageDDGSReview       Stage = "DDGS_REVIEW"
	StageADGSReview       Stage = "ADGS_REVIEW"
	StageTOReview         Stage = "TO_REVIEW"
	StageDDICTReview      Stage = "DDICT_REVIEW"
	StageSOReview         Stage = "SO_REVIEW"
	StageFulfillment      Stage = "FULFILLMENT"
)

var validStages = map[Stage]bool{
	StageSubmitted:        true,
	StageSupervisorReview: true,
	StageDGSReview:        true,
	StageDDGSReview:       true,
	StageADGSReview:       true,
	StageTOReview:         true,
	StageDDICTReview:      true,
	StageSOReview:         true,
	StageFulfillment:      true,
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// IsValid returns true if the stage is a valid workflow stage
func (s Stage) IsValid() bool {
	return validStages[s]
}
