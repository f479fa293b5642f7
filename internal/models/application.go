// internal/models/application.go
package models

import "time"

// ApplicationStatus is the application's lifecycle state. The workflow is the
// sole writer; terminal states are append-only.
type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusAssigned    ApplicationStatus = "assigned"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusEscalated   ApplicationStatus = "escalated"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
)

// IsTerminal reports whether the status permits no further transitions.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// LoanApplication is owned by the workflow. RiskScore carries the persisted
// normalized composite score consumed by the authority gate.
type LoanApplication struct {
	ApplicationID string  `json:"applicationId"`
	ApplicantID   string  `json:"applicantId"`
	LoanAmount    float64 `json:"loanAmount"`
	LoanType      string  `json:"loanType"`
	TenureMonths  int     `json:"tenureMonths"`
	Purpose       string  `json:"purpose,omitempty"`

	Status    ApplicationStatus `json:"status"`
	RiskScore int               `json:"riskScore"`
	RiskTier  RiskTier          `json:"riskTier"`

	// Audit fields stamped by the workflow on decisions.
	DecidedBy      string     `json:"decidedBy,omitempty"`
	DecidedAt      *time.Time `json:"decidedAt,omitempty"`
	DecisionReason string     `json:"decisionReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
