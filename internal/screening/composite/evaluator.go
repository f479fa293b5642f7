// internal/screening/composite/evaluator.go

// Package composite blends the internal and external screening scores into a
// single 0-100 recommendation. Output is advisory; nothing here mutates
// application state.
package composite

import (
	"math"

	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/common/metrics"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

type Evaluator struct {
	cfg config.CompositeConfig
	// tierThresholds classify the blended score back onto the tier scale for
	// display alongside the recommendation.
	tierThresholds config.TierThresholds
}

func New(cfg config.ScreeningConfig) *Evaluator {
	return &Evaluator{
		cfg:            cfg.Composite,
		tierThresholds: cfg.TierThresholds,
	}
}

// Combine normalizes both raw scores onto 0-100 (capping at the configured
// maxima, so inputs far beyond the caps still land inside the scale), blends
// them by weight, and maps the result onto the recommendation bands.
//
// Disqualifying external findings (criminal-record match, defaulted prior
// loan, or a match scoring into the CRITICAL tier) force a REJECT regardless
// of the blended score: a clean internal profile must not wash out a
// criminal match.
func (e *Evaluator) Combine(internal models.ScoringResult, external models.ExternalScreeningResult) models.CompositeResult {
	internalNorm := normalize(internal.TotalScore, e.cfg.InternalMaxScore)
	externalNorm := normalize(external.Score, e.cfg.ExternalMaxScore)

	blended := e.cfg.InternalWeight*internalNorm + e.cfg.ExternalWeight*externalNorm
	blended = clamp(blended, 0, 100)

	metrics.ScreeningsPerformed.WithLabelValues("composite").Inc()

	result := models.CompositeResult{
		NormalizedScore: round2(blended),
		InternalNorm:    round2(internalNorm),
		ExternalNorm:    round2(externalNorm),
		Tier:            classifyNormalized(blended, e.tierThresholds),
		Recommendation:  e.recommend(blended),
	}

	if e.disqualified(external) {
		result.Recommendation = models.RecommendReject
		result.CriticalOverride = true
	}
	return result
}

// disqualified reports whether the external findings rule the applicant out
// on their own. Only genuine matches count; neutral and degraded results
// never disqualify.
func (e *Evaluator) disqualified(external models.ExternalScreeningResult) bool {
	if !external.Matched {
		return false
	}
	if external.Score >= e.tierThresholds.Critical {
		return true
	}
	for _, sig := range external.Signals {
		switch sig.Name {
		case models.SignalCriminalRecordMatch, models.SignalDefaultedPriorLoan:
			return true
		}
	}
	return false
}

func (e *Evaluator) recommend(score float64) models.Recommendation {
	switch {
	case score >= e.cfg.RejectThreshold:
		return models.RecommendReject
	case score >= e.cfg.ReviewThreshold:
		return models.RecommendReview
	default:
		return models.RecommendApprove
	}
}

func normalize(raw, max int) float64 {
	if raw <= 0 || max <= 0 {
		return 0
	}
	return math.Min(100, float64(raw)/float64(max)*100)
}

// classifyNormalized reuses the raw tier boundaries on the normalized scale.
// The two scales are deliberately independent; see the configuration docs.
func classifyNormalized(score float64, t config.TierThresholds) models.RiskTier {
	switch {
	case score >= float64(t.Critical):
		return models.TierCritical
	case score >= float64(t.High):
		return models.TierHigh
	case score >= float64(t.Medium):
		return models.TierMedium
	case score >= float64(t.Low):
		return models.TierLow
	default:
		return models.TierClean
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
