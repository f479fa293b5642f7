// internal/screening/rules/financial.go
package rules

import (
	"fmt"

	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

const (
	pointsHighLoanToIncome = 25
	pointsLowCreditScore   = 30
	pointsPerDefault       = 20
	maxCountedDefaults     = 3
	pointsBankruptcy       = 50

	loanToIncomeMultiple = 5.0
	creditScoreFloor     = 300
)

// checkLoanToIncome fires when the requested amount exceeds five times the
// declared annual income.
func checkLoanToIncome(profile *models.ApplicantProfile, app *models.LoanApplication) Result {
	if profile == nil || app == nil || profile.Financial == nil {
		return Result{}
	}
	income := profile.Financial.AnnualIncome
	if income == nil || *income <= 0 {
		return Result{}
	}
	if app.LoanAmount <= *income*loanToIncomeMultiple {
		return Result{}
	}
	return Result{
		Triggered: true,
		Points:    pointsHighLoanToIncome,
		Description: fmt.Sprintf("Loan amount %.0f exceeds %.0fx annual income %.0f",
			app.LoanAmount, loanToIncomeMultiple, *income),
	}
}

func checkLowCreditScore(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
	if profile == nil || profile.Financial == nil || profile.Financial.CreditScore == nil {
		return Result{}
	}
	score := *profile.Financial.CreditScore
	if score >= creditScoreFloor {
		return Result{}
	}
	return Result{
		Triggered:   true,
		Points:      pointsLowCreditScore,
		Description: fmt.Sprintf("Credit score %d below minimum %d", score, creditScoreFloor),
	}
}

// checkPaymentDefaults adds 20 points per recorded default, capped at three
// defaults (60 points).
func checkPaymentDefaults(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
	if profile == nil || profile.Financial == nil || profile.Financial.DefaultCount <= 0 {
		return Result{}
	}
	counted := profile.Financial.DefaultCount
	if counted > maxCountedDefaults {
		counted = maxCountedDefaults
	}
	return Result{
		Triggered:   true,
		Points:      counted * pointsPerDefault,
		Description: fmt.Sprintf("%d payment default(s) on record", profile.Financial.DefaultCount),
	}
}

func checkBankruptcy(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
	if profile == nil || profile.Financial == nil || !profile.Financial.HasBankruptcy {
		return Result{}
	}
	return Result{
		Triggered:   true,
		Points:      pointsBankruptcy,
		Description: "Bankruptcy on record",
	}
}
