// internal/models/signal.go
package models

import "time"

// SignalCategory groups fraud rules by the data they inspect.
type SignalCategory string

const (
	CategoryIdentity   SignalCategory = "IDENTITY"
	CategoryFinancial  SignalCategory = "FINANCIAL"
	CategoryEmployment SignalCategory = "EMPLOYMENT"
	CategoryCriminal   SignalCategory = "CRIMINAL"
	CategoryLoanRecord SignalCategory = "LOAN_RECORD"
	CategoryRegistry   SignalCategory = "REGISTRY"
)

// Critical external findings. Either one disqualifies an applicant outright,
// independent of the blended score.
const (
	SignalCriminalRecordMatch = "CRIMINAL_RECORD_MATCH"
	SignalDefaultedPriorLoan  = "DEFAULTED_PRIOR_LOAN"
)

// FraudSignal is a triggered-rule record. Immutable once created; appended to
// the audit trail, never edited.
type FraudSignal struct {
	Name        string         `json:"name"`
	Category    SignalCategory `json:"category"`
	Points      int            `json:"points"`
	Description string         `json:"description"`
}

// ScoringResult is the value type produced by every internal evaluation.
// Recomputed each time; persisted only as audit, never as authoritative state.
type ScoringResult struct {
	TotalScore int           `json:"totalScore"`
	Tier       RiskTier      `json:"tier"`
	Signals    []FraudSignal `json:"signals"`
}

// ExternalScreeningResult is the record-matching collaborator's findings
// normalized into the internal score/tier vocabulary. A neutral result
// (score 0, tier CLEAN, Matched false) is returned whenever the collaborator
// is disabled or unreachable.
type ExternalScreeningResult struct {
	Score    int           `json:"score"`
	Tier     RiskTier      `json:"tier"`
	Matched  bool          `json:"matched"`
	Signals  []FraudSignal `json:"signals,omitempty"`
	Degraded bool          `json:"degraded,omitempty"`
}

// CompositeResult is the advisory outcome of blending internal and external
// scores onto the 0-100 normalized scale.
type CompositeResult struct {
	NormalizedScore float64        `json:"normalizedScore"`
	InternalNorm    float64        `json:"internalNormalized"`
	ExternalNorm    float64        `json:"externalNormalized"`
	Tier            RiskTier       `json:"tier"`
	Recommendation  Recommendation `json:"recommendation"`
	// CriticalOverride marks a REJECT forced by a disqualifying external
	// finding rather than by the score bands.
	CriticalOverride bool `json:"criticalOverride,omitempty"`
}

// AuditEntry is one appended row of the signal/audit log, keyed by
// application id and timestamp.
type AuditEntry struct {
	EntryID       string      `json:"entryId"`
	ApplicationID string      `json:"applicationId"`
	Source        string      `json:"source"` // internal, external
	Signal        FraudSignal `json:"signal"`
	RecordedAt    time.Time   `json:"recordedAt"`
}
