// internal/screening/rules/rules.go

// Package rules holds the fixed set of fraud rules evaluated against an
// applicant snapshot. Every rule is a pure predicate: no I/O, no state, and
// missing input data suppresses the rule instead of erroring.
package rules

import (
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// Result is a single rule evaluation outcome.
type Result struct {
	Triggered   bool
	Points      int
	Description string
}

// CheckFunc evaluates one rule against the profile and, optionally, the
// application under screening.
type CheckFunc func(profile *models.ApplicantProfile, app *models.LoanApplication) Result

// Rule pairs a named, categorized fraud check with its predicate.
type Rule struct {
	Name     string
	Category models.SignalCategory
	Check    CheckFunc
}

// Signal converts a triggered result into its audit record.
func (r Rule) Signal(res Result) models.FraudSignal {
	return models.FraudSignal{
		Name:        r.Name,
		Category:    r.Category,
		Points:      res.Points,
		Description: res.Description,
	}
}

// Default returns the full rule set in registration order. The order is
// fixed so that repeated evaluations produce identical signal sequences.
func Default(monthlyIncomeFloor float64) []Rule {
	return []Rule{
		{Name: "DUPLICATE_CONTACT", Category: models.CategoryIdentity, Check: checkDuplicateContact},
		{Name: "DOCUMENT_NAME_MISMATCH", Category: models.CategoryIdentity, Check: checkDocumentNameMismatch},
		{Name: "DOCUMENT_DOB_MISMATCH", Category: models.CategoryIdentity, Check: checkDocumentDOBMismatch},
		{Name: "DOCUMENT_ADDRESS_MISMATCH", Category: models.CategoryIdentity, Check: checkDocumentAddressMismatch},
		{Name: "HIGH_LOAN_TO_INCOME", Category: models.CategoryFinancial, Check: checkLoanToIncome},
		{Name: "LOW_CREDIT_SCORE", Category: models.CategoryFinancial, Check: checkLowCreditScore},
		{Name: "PAYMENT_DEFAULTS", Category: models.CategoryFinancial, Check: checkPaymentDefaults},
		{Name: "BANKRUPTCY_ON_RECORD", Category: models.CategoryFinancial, Check: checkBankruptcy},
		{Name: "MISSING_EMPLOYMENT_DETAILS", Category: models.CategoryEmployment, Check: checkMissingEmployment},
		{Name: "LOW_MONTHLY_INCOME", Category: models.CategoryEmployment, Check: checkLowMonthlyIncome(monthlyIncomeFloor)},
	}
}
