// internal/models/applicant.go
package models

import "time"

// ApplicantProfile is the immutable snapshot passed into scoring. The engine
// never mutates it. Optional sub-records and pointer fields represent data
// the collaborators could not supply; a missing field suppresses the rules
// that read it.
type ApplicantProfile struct {
	ApplicantID string `json:"applicantId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`

	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`

	PANNumber     string `json:"panNumber,omitempty"`
	AadhaarNumber string `json:"aadhaarNumber,omitempty"`

	// DuplicateContact is set by the profile store when another applicant
	// shares this profile's phone or email.
	DuplicateContact bool `json:"duplicateContact,omitempty"`

	Financial  *FinancialRecord  `json:"financial,omitempty"`
	Employment *EmploymentRecord `json:"employment,omitempty"`
	Document   *DocumentIdentity `json:"document,omitempty"`
}

// FullName joins the declared name parts.
func (p *ApplicantProfile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// FinancialRecord holds the applicant's declared financial attributes.
type FinancialRecord struct {
	AnnualIncome  *float64 `json:"annualIncome,omitempty"`
	ExistingDebt  *float64 `json:"existingDebt,omitempty"`
	CreditScore   *int     `json:"creditScore,omitempty"`
	HasBankruptcy bool     `json:"hasBankruptcy"`
	DefaultCount  int      `json:"defaultCount"`
}

// EmploymentRecord holds the applicant's declared employment attributes.
type EmploymentRecord struct {
	EmployerName   string   `json:"employerName,omitempty"`
	Occupation     string   `json:"occupation,omitempty"`
	MonthlyIncome  *float64 `json:"monthlyIncome,omitempty"`
	YearsInCurrent *float64 `json:"yearsInCurrent,omitempty"`
}

// DocumentIdentity carries identity fields extracted from uploaded documents
// (Aadhaar/PAN-equivalents) by the document collaborator. Best-effort input:
// empty fields suppress the cross-verification rules that compare them.
type DocumentIdentity struct {
	FullName      string     `json:"fullName,omitempty"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Address       string     `json:"address,omitempty"`
	PANNumber     string     `json:"panNumber,omitempty"`
	AadhaarNumber string     `json:"aadhaarNumber,omitempty"`
}
