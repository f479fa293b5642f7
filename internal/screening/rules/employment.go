// internal/screening/rules/employment.go
package rules

import (
	"fmt"

	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

const (
	pointsMissingEmployment = 15
	pointsLowMonthlyIncome  = 10
)

// checkMissingEmployment is the one rule where absence is the trigger: no
// employment record, no employer name, or no declared income all fire it.
func checkMissingEmployment(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
	if profile == nil {
		return Result{}
	}
	emp := profile.Employment
	if emp != nil && emp.EmployerName != "" && emp.MonthlyIncome != nil {
		return Result{}
	}
	return Result{
		Triggered:   true,
		Points:      pointsMissingEmployment,
		Description: "Employer or income details missing",
	}
}

// checkLowMonthlyIncome fires only when income is present and below the
// configured floor; a missing income is already covered by the missing
// employment rule.
func checkLowMonthlyIncome(floor float64) CheckFunc {
	return func(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
		if profile == nil || profile.Employment == nil || profile.Employment.MonthlyIncome == nil {
			return Result{}
		}
		income := *profile.Employment.MonthlyIncome
		if income >= floor {
			return Result{}
		}
		return Result{
			Triggered:   true,
			Points:      pointsLowMonthlyIncome,
			Description: fmt.Sprintf("Monthly income %.0f below floor %.0f", income, floor),
		}
	}
}
