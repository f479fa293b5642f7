// internal/screening/external/external.go

// Package external adapts the record-matching collaborator (criminal records,
// prior-loan history, third-party fraud registries) into the internal
// score/tier vocabulary. The adapter is the only blocking step in screening
// and always fails open to a neutral result.
package external

import (
	"context"

	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// Identity carries the fields the collaborator matches on, strongest
// identifier first.
type Identity struct {
	FullName      string `json:"fullName"`
	PANNumber     string `json:"panNumber,omitempty"`
	AadhaarNumber string `json:"aadhaarNumber,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
}

// IdentityFromProfile builds the match query from the scoring snapshot.
func IdentityFromProfile(p *models.ApplicantProfile) Identity {
	return Identity{
		FullName:      p.FullName(),
		PANNumber:     p.PANNumber,
		AadhaarNumber: p.AadhaarNumber,
		Phone:         p.Phone,
		Email:         p.Email,
	}
}

// PriorLoan is one historical loan record returned by the collaborator.
type PriorLoan struct {
	LoanID    string `json:"loanId"`
	Defaulted bool   `json:"defaulted"`
	Active    bool   `json:"active"`
}

// RegistryEntry is a third-party fraud registry hit carrying its own points.
type RegistryEntry struct {
	Source string `json:"source"`
	Points int    `json:"points"`
	Reason string `json:"reason,omitempty"`
}

// Findings is the collaborator's raw response before weighting.
type Findings struct {
	CriminalRecords int             `json:"criminalRecords"`
	PriorLoans      []PriorLoan     `json:"priorLoans"`
	RegistryEntries []RegistryEntry `json:"fraudRegistryEntries"`
}

// RecordClient is the collaborator boundary. One call per screening; callers
// own the timeout on ctx.
type RecordClient interface {
	Query(ctx context.Context, identity Identity) (*Findings, error)
}
