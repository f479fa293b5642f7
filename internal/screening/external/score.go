// internal/screening/external/score.go
package external

import (
	"fmt"

	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

const (
	pointsCriminalMatch    = 100
	pointsDefaultedLoan    = 80
	pointsExcessActiveLoan = 20
	registryPointsCap      = 150

	maxActiveLoans = 5
)

// scoreFindings maps the collaborator's findings onto weighted points.
// Criminal matches contribute a flat 100 regardless of record count; registry
// points accumulate but cap at 150.
func scoreFindings(f *Findings, thresholds config.TierThresholds) models.ExternalScreeningResult {
	score := 0
	var signals []models.FraudSignal

	if f.CriminalRecords > 0 {
		score += pointsCriminalMatch
		signals = append(signals, models.FraudSignal{
			Name:        models.SignalCriminalRecordMatch,
			Category:    models.CategoryCriminal,
			Points:      pointsCriminalMatch,
			Description: fmt.Sprintf("%d criminal record(s) matched", f.CriminalRecords),
		})
	}

	defaulted, active := 0, 0
	for _, loan := range f.PriorLoans {
		if loan.Defaulted {
			defaulted++
		}
		if loan.Active {
			active++
		}
	}
	if defaulted > 0 {
		score += pointsDefaultedLoan
		signals = append(signals, models.FraudSignal{
			Name:        models.SignalDefaultedPriorLoan,
			Category:    models.CategoryLoanRecord,
			Points:      pointsDefaultedLoan,
			Description: fmt.Sprintf("%d defaulted prior loan(s)", defaulted),
		})
	}
	if active > maxActiveLoans {
		score += pointsExcessActiveLoan
		signals = append(signals, models.FraudSignal{
			Name:        "EXCESSIVE_ACTIVE_LOANS",
			Category:    models.CategoryLoanRecord,
			Points:      pointsExcessActiveLoan,
			Description: fmt.Sprintf("%d concurrently active prior loans", active),
		})
	}

	registryPoints := 0
	for _, entry := range f.RegistryEntries {
		registryPoints += entry.Points
	}
	if registryPoints > registryPointsCap {
		registryPoints = registryPointsCap
	}
	if registryPoints > 0 {
		score += registryPoints
		signals = append(signals, models.FraudSignal{
			Name:        "FRAUD_REGISTRY_MATCH",
			Category:    models.CategoryRegistry,
			Points:      registryPoints,
			Description: fmt.Sprintf("%d fraud registry entr(ies)", len(f.RegistryEntries)),
		})
	}

	return models.ExternalScreeningResult{
		Score:   score,
		Tier:    classify(score, thresholds),
		Matched: len(signals) > 0,
		Signals: signals,
	}
}

func classify(score int, t config.TierThresholds) models.RiskTier {
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
