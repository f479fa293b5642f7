// internal/models/risk.go
package models

// RiskTier is the ordinal risk classification derived from a numeric score.
// Ordering matters: comparisons like tier >= TierHigh are used by callers.
type RiskTier int

const (
	TierClean RiskTier = iota
	TierLow
	TierMedium
	TierHigh
	TierCritical
)

var tierNames = map[RiskTier]string{
	TierClean:    "CLEAN",
	TierLow:      "LOW",
	TierMedium:   "MEDIUM",
	TierHigh:     "HIGH",
	TierCritical: "CRITICAL",
}

func (t RiskTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the tier name in JSON payloads and logs.
func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *RiskTier) UnmarshalText(b []byte) error {
	for tier, name := range tierNames {
		if name == string(b) {
			*t = tier
			return nil
		}
	}
	*t = TierClean
	return nil
}

// ParseRiskTier maps a stored tier name back to its ordinal.
func ParseRiskTier(s string) RiskTier {
	for tier, name := range tierNames {
		if name == s {
			return tier
		}
	}
	return TierClean
}

// Recommendation is the advisory outcome of composite evaluation.
type Recommendation string

const (
	RecommendApprove Recommendation = "APPROVE"
	RecommendReview  Recommendation = "REVIEW"
	RecommendReject  Recommendation = "REJECT"
)
