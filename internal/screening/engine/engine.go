// internal/screening/engine/engine.go

// Package engine aggregates the fraud rule set into a bounded score and risk
// tier. Evaluation is deterministic: identical inputs produce identical
// results, including signal order.
package engine

import (
	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/common/metrics"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/screening/rules"
)

// Engine runs every registered rule and classifies the summed points.
type Engine struct {
	rules      []rules.Rule
	thresholds config.TierThresholds
}

func New(cfg config.ScreeningConfig) *Engine {
	return &Engine{
		rules:      rules.Default(cfg.MonthlyIncomeFloor),
		thresholds: cfg.TierThresholds,
	}
}

// NewWithRules builds an engine over an explicit rule list. Used by tests
// exercising alternate rule subsets.
func NewWithRules(ruleSet []rules.Rule, thresholds config.TierThresholds) *Engine {
	return &Engine{rules: ruleSet, thresholds: thresholds}
}

// Evaluate runs all rules, sums triggered points with no cap, and classifies
// the total. The caller persists the emitted signals to the audit trail.
func (e *Engine) Evaluate(profile *models.ApplicantProfile, app *models.LoanApplication) models.ScoringResult {
	total := 0
	signals := make([]models.FraudSignal, 0, len(e.rules))

	for _, rule := range e.rules {
		res := rule.Check(profile, app)
		if !res.Triggered {
			continue
		}
		total += res.Points
		signals = append(signals, rule.Signal(res))
		metrics.SignalsTriggered.WithLabelValues(string(rule.Category)).Inc()
	}

	metrics.ScreeningsPerformed.WithLabelValues("internal").Inc()

	return models.ScoringResult{
		TotalScore: total,
		Tier:       ClassifyTier(total, e.thresholds),
		Signals:    signals,
	}
}

// ClassifyTier maps a raw score onto the ordered tier scale using the
// ascending thresholds. Monotonic by construction.
func ClassifyTier(score int, t config.TierThresholds) models.RiskTier {
	switch {
	case score >= t.Critical:
		return models.TierCritical
	case score >= t.High:
		return models.TierHigh
	case score >= t.Medium:
		return models.TierMedium
	case score >= t.Low:
		return models.TierLow
	default:
		return models.TierClean
	}
}
