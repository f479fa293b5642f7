// internal/workers/screening/submit-application/models.go
package submitapplication

type Input struct {
	ApplicantID  string  `json:"applicantId"`
	LoanAmount   float64 `json:"loanAmount"`
	LoanType     string  `json:"loanType"`
	TenureMonths int     `json:"tenureMonths"`
	Purpose      string  `json:"purpose,omitempty"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
	RiskScore     int    `json:"riskScore"`
	RiskTier      string `json:"riskTier"`
}
