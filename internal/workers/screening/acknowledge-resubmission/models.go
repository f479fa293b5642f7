// internal/workers/screening/acknowledge-resubmission/models.go
package acknowledgeresubmission

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
	RiskScore     int    `json:"riskScore"`
	RiskTier      string `json:"riskTier"`
}
