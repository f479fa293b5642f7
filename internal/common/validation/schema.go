// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
)

// loanApplicationSchema validates the submission payload before it enters the
// screening pipeline. Profile fields are deliberately not required here:
// missing applicant data suppresses fraud rules, it does not reject the
// submission.
var loanApplicationSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"applicantId": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"loanAmount": map[string]interface{}{
			"type":             "number",
			"exclusiveMinimum": 0,
		},
		"loanType": map[string]interface{}{
			"type": "string",
			"enum": []string{"personal", "home", "vehicle", "education", "business", "gold"},
		},
		"tenureMonths": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 480,
		},
		"purpose": map[string]interface{}{
			"type":      "string",
			"maxLength": 500,
		},
	},
	"required": []string{"applicantId", "loanAmount", "loanType", "tenureMonths"},
}

// ValidateLoanApplication checks a raw submission payload against the schema.
// Returns a VALIDATION_FAILED StandardError listing every violation.
func ValidateLoanApplication(payload map[string]interface{}) error {
	return validate(loanApplicationSchema, payload)
}

func validate(schemaMap, data map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewValidationFailedError(strings.Join(errs, "; "))
	}

	return nil
}
