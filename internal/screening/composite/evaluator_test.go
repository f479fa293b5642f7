// internal/screening/composite/evaluator_test.go
package composite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

func TestCombineNeutralInputsApprove(t *testing.T) {
	ev := New(config.DefaultScreening())

	result := ev.Combine(models.ScoringResult{}, models.ExternalScreeningResult{})

	assert.Equal(t, 0.0, result.NormalizedScore)
	assert.Equal(t, models.TierClean, result.Tier)
	assert.Equal(t, models.RecommendApprove, result.Recommendation)
}

func TestCombineBlendsByWeight(t *testing.T) {
	ev := New(config.DefaultScreening())

	// 100/200 -> 50 internal; 75/150 -> 50 external; 0.6*50 + 0.4*50 = 50.
	result := ev.Combine(
		models.ScoringResult{TotalScore: 100},
		models.ExternalScreeningResult{Score: 75},
	)

	assert.Equal(t, 50.0, result.NormalizedScore)
	assert.Equal(t, 50.0, result.InternalNorm)
	assert.Equal(t, 50.0, result.ExternalNorm)
	assert.Equal(t, models.RecommendReview, result.Recommendation)
}

// Inputs far beyond the configured maxima still land inside 0-100.
func TestCombineCapsOversizedInputs(t *testing.T) {
	ev := New(config.DefaultScreening())

	result := ev.Combine(
		models.ScoringResult{TotalScore: 100000},
		models.ExternalScreeningResult{Score: 100000},
	)

	assert.Equal(t, 100.0, result.NormalizedScore)
	assert.Equal(t, 100.0, result.InternalNorm)
	assert.Equal(t, 100.0, result.ExternalNorm)
	assert.Equal(t, models.RecommendReject, result.Recommendation)
	assert.Equal(t, models.TierCritical, result.Tier)
}

func TestCombineRecommendationBands(t *testing.T) {
	ev := New(config.DefaultScreening())

	tests := []struct {
		name     string
		internal int
		external int
		want     models.Recommendation
	}{
		// 0.6*(60/200*100) + 0.4*0 = 18 -> APPROVE
		{"low blended score", 60, 0, models.RecommendApprove},
		// 0.6*(120/200*100) + 0.4*0 = 36 -> REVIEW
		{"at review band", 120, 0, models.RecommendReview},
		// 0.6*(150/200*100) + 0.4*(60/150*100) = 45 + 16 = 61 -> REJECT
		{"above reject band", 150, 60, models.RecommendReject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ev.Combine(
				models.ScoringResult{TotalScore: tt.internal},
				models.ExternalScreeningResult{Score: tt.external},
			)
			assert.Equal(t, tt.want, result.Recommendation)
		})
	}
}

// A clean internal profile must not wash out a disqualifying external
// finding: the recommendation is forced to REJECT even when the blended
// score sits in the APPROVE band.
func TestCombineCriticalFindingOverridesScoreBands(t *testing.T) {
	ev := New(config.DefaultScreening())

	tests := []struct {
		name   string
		signal string
		score  int
	}{
		{"criminal record match", models.SignalCriminalRecordMatch, 100},
		{"defaulted prior loan", models.SignalDefaultedPriorLoan, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ev.Combine(models.ScoringResult{}, models.ExternalScreeningResult{
				Score:   tt.score,
				Tier:    models.TierCritical,
				Matched: true,
				Signals: []models.FraudSignal{{Name: tt.signal, Points: tt.score}},
			})

			assert.Less(t, result.NormalizedScore, 35.0)
			assert.Equal(t, models.RecommendReject, result.Recommendation)
			assert.True(t, result.CriticalOverride)
		})
	}
}

func TestCombineCriticalTierMatchOverridesWithoutNamedSignal(t *testing.T) {
	ev := New(config.DefaultScreening())

	result := ev.Combine(models.ScoringResult{}, models.ExternalScreeningResult{
		Score:   100,
		Matched: true,
	})

	assert.Equal(t, models.RecommendReject, result.Recommendation)
	assert.True(t, result.CriticalOverride)
}

func TestCombineNonCriticalExternalMatchFollowsBands(t *testing.T) {
	ev := New(config.DefaultScreening())

	// An excessive-active-loans match alone stays below the critical tier
	// and must not trip the override.
	result := ev.Combine(models.ScoringResult{}, models.ExternalScreeningResult{
		Score:   20,
		Tier:    models.TierLow,
		Matched: true,
		Signals: []models.FraudSignal{{Name: "EXCESSIVE_ACTIVE_LOANS", Points: 20}},
	})

	assert.Equal(t, models.RecommendApprove, result.Recommendation)
	assert.False(t, result.CriticalOverride)
}

func TestCombineDegradedExternalOnlyShiftsByWeight(t *testing.T) {
	ev := New(config.DefaultScreening())

	withExternal := ev.Combine(
		models.ScoringResult{TotalScore: 100},
		models.ExternalScreeningResult{Score: 150, Matched: true},
	)
	neutral := ev.Combine(
		models.ScoringResult{TotalScore: 100},
		models.ExternalScreeningResult{Degraded: true},
	)

	// Internal contribution is identical; only the weighted external part
	// drops when the collaborator degrades to neutral.
	assert.Equal(t, withExternal.InternalNorm, neutral.InternalNorm)
	assert.Equal(t, 0.0, neutral.ExternalNorm)
	assert.Equal(t, 30.0, neutral.NormalizedScore)
}
