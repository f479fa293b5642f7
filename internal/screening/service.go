// internal/screening/service.go

// Package screening orchestrates one full screening pass: profile fetch,
// internal rule evaluation, external record matching, and the composite
// blend.
package screening

import (
	"context"
	"math"

	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/screening/composite"
	"github.com/Mahek226/LoanManagementSystem/internal/screening/engine"
	"github.com/Mahek226/LoanManagementSystem/internal/screening/external"
	"github.com/Mahek226/LoanManagementSystem/internal/storage"
)

// SignalRecorder is the audit boundary. Recording failures degrade to a log
// line; they never abort screening.
type SignalRecorder interface {
	Record(ctx context.Context, applicationID, source string, signals []models.FraudSignal) error
}

// Outcome bundles the three evaluation stages for one pass.
type Outcome struct {
	Internal  models.ScoringResult
	External  models.ExternalScreeningResult
	Composite models.CompositeResult
}

// RiskScore is the persisted form of the normalized composite score.
func (o Outcome) RiskScore() int {
	return int(math.Round(o.Composite.NormalizedScore))
}

// Service runs screening passes against the stored applicant profile.
type Service struct {
	profiles  storage.ProfileStore
	engine    *engine.Engine
	adapter   *external.Adapter
	evaluator *composite.Evaluator
	recorder  SignalRecorder
	log       logger.Logger
}

func NewService(
	profiles storage.ProfileStore,
	eng *engine.Engine,
	adapter *external.Adapter,
	evaluator *composite.Evaluator,
	recorder SignalRecorder,
	log logger.Logger,
) *Service {
	return &Service{
		profiles:  profiles,
		engine:    eng,
		adapter:   adapter,
		evaluator: evaluator,
		recorder:  recorder,
		log:       log,
	}
}

// Screen evaluates the application against its applicant profile. A missing
// profile is surfaced to the caller; every other degradation (external
// collaborator down, audit write failing) is absorbed here.
func (s *Service) Screen(ctx context.Context, app *models.LoanApplication) (Outcome, error) {
	profile, err := s.profiles.GetProfile(ctx, app.ApplicantID)
	if err != nil {
		return Outcome{}, err
	}

	internal := s.engine.Evaluate(profile, app)
	ext := s.adapter.Screen(ctx, profile)
	comp := s.evaluator.Combine(internal, ext)

	s.record(ctx, app.ApplicationID, "internal", internal.Signals)
	s.record(ctx, app.ApplicationID, "external", ext.Signals)

	s.log.Info("screening pass complete", map[string]interface{}{
		"application_id":   app.ApplicationID,
		"internal_score":   internal.TotalScore,
		"external_score":   ext.Score,
		"normalized_score": comp.NormalizedScore,
		"tier":             comp.Tier.String(),
		"recommendation":   comp.Recommendation,
	})

	return Outcome{Internal: internal, External: ext, Composite: comp}, nil
}

// Refresh recomputes the persisted risk score for an application already in
// review. Satisfies the workflow's refresher boundary.
func (s *Service) Refresh(ctx context.Context, app *models.LoanApplication) (int, models.RiskTier, error) {
	outcome, err := s.Screen(ctx, app)
	if err != nil {
		return 0, models.TierClean, err
	}
	return outcome.RiskScore(), outcome.Composite.Tier, nil
}

func (s *Service) record(ctx context.Context, applicationID, source string, signals []models.FraudSignal) {
	if s.recorder == nil || len(signals) == 0 {
		return
	}
	if err := s.recorder.Record(ctx, applicationID, source, signals); err != nil {
		s.log.WithError(err).Warn("signal audit write failed", map[string]interface{}{
			"application_id": applicationID,
			"source":         source,
		})
	}
}
