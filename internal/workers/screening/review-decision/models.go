// internal/workers/screening/review-decision/models.go
package reviewdecision

type Input struct {
	ApplicationID string `json:"applicationId"`
	ReviewerID    string `json:"reviewerId"`
	Tier          string `json:"tier"`
	Action        string `json:"action"`
	Reason        string `json:"reason,omitempty"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
	RiskScore     int    `json:"riskScore"`
	RiskTier      string `json:"riskTier"`
	DecidedBy     string `json:"decidedBy,omitempty"`
}
