// internal/models/reviewer.go
package models

// Reviewer is the shared capability of loan officers and compliance officers.
// The balancer is tier-agnostic: it only needs identity, specialization, and
// the tier whose pool the reviewer belongs to.
type Reviewer interface {
	ReviewerID() string
	FullName() string
	// Specialization is the loan type handled; empty means all types.
	Specialization() string
	Tier() ReviewTier
}

// LoanOfficer reviews first-tier assignments for a single loan type.
type LoanOfficer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	LoanType  string `json:"loanType"`
}

func (o LoanOfficer) ReviewerID() string     { return o.ID }
func (o LoanOfficer) FullName() string       { return o.FirstName + " " + o.LastName }
func (o LoanOfficer) Specialization() string { return o.LoanType }
func (o LoanOfficer) Tier() ReviewTier       { return TierOfficer }

// ComplianceOfficer reviews escalated cases with full authority across all
// loan types.
type ComplianceOfficer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

func (o ComplianceOfficer) ReviewerID() string     { return o.ID }
func (o ComplianceOfficer) FullName() string       { return o.FirstName + " " + o.LastName }
func (o ComplianceOfficer) Specialization() string { return "" }
func (o ComplianceOfficer) Tier() ReviewTier       { return TierCompliance }
