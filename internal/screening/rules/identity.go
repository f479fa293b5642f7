// internal/screening/rules/identity.go
package rules

import (
	"fmt"
	"strings"

	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

const (
	pointsDuplicateContact = 20
	pointsNameMismatch     = 25
	pointsDOBMismatch      = 20
	pointsAddressMismatch  = 15
)

// checkDuplicateContact fires when the profile store flagged another
// applicant sharing this profile's phone or email.
func checkDuplicateContact(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
	if profile == nil || !profile.DuplicateContact {
		return Result{}
	}
	return Result{
		Triggered:   true,
		Points:      pointsDuplicateContact,
		Description: "Contact information shared with another applicant",
	}
}

// checkDocumentNameMismatch compares the declared name with the name the
// document collaborator extracted. Either side missing suppresses the rule.
func checkDocumentNameMismatch(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
	if profile == nil || profile.Document == nil {
		return Result{}
	}
	declared := normalizeText(profile.FullName())
	extracted := normalizeText(profile.Document.FullName)
	if declared == "" || extracted == "" {
		return Result{}
	}
	if declared == extracted {
		return Result{}
	}
	return Result{
		Triggered:   true,
		Points:      pointsNameMismatch,
		Description: fmt.Sprintf("Declared name %q does not match document name %q", profile.FullName(), profile.Document.FullName),
	}
}

func checkDocumentDOBMismatch(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
	if profile == nil || profile.Document == nil {
		return Result{}
	}
	if profile.DateOfBirth == nil || profile.Document.DateOfBirth == nil {
		return Result{}
	}
	dy, dm, dd := profile.DateOfBirth.Date()
	ey, em, ed := profile.Document.DateOfBirth.Date()
	if dy == ey && dm == em && dd == ed {
		return Result{}
	}
	return Result{
		Triggered:   true,
		Points:      pointsDOBMismatch,
		Description: "Declared date of birth does not match document date of birth",
	}
}

func checkDocumentAddressMismatch(profile *models.ApplicantProfile, _ *models.LoanApplication) Result {
	if profile == nil || profile.Document == nil {
		return Result{}
	}
	declared := normalizeText(profile.Address)
	extracted := normalizeText(profile.Document.Address)
	if declared == "" || extracted == "" {
		return Result{}
	}
	if declared == extracted {
		return Result{}
	}
	return Result{
		Triggered:   true,
		Points:      pointsAddressMismatch,
		Description: "Declared address does not match document address",
	}
}

// normalizeText lowercases, trims, and collapses internal whitespace so that
// formatting differences alone never trigger a mismatch.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
