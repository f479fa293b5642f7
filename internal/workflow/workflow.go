// internal/workflow/workflow.go

// Package workflow is the state machine governing a loan application's
// screening lifecycle. It is the single writer of application status: every
// transition is validated against the legality table, serialized per
// application, and applied fail-closed inside one transaction.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Mahek226/LoanManagementSystem/internal/assignment"
	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/common/metrics"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/storage"
)

// Assigner is the balancer boundary.
type Assigner interface {
	Assign(ctx context.Context, app *models.LoanApplication, tier models.ReviewTier, priority string) (*models.Assignment, error)
}

// RiskRefresher recomputes the persisted risk score on decision entry.
// Refresh failures degrade to the stored score; they never block a decision.
type RiskRefresher interface {
	Refresh(ctx context.Context, app *models.LoanApplication) (int, models.RiskTier, error)
}

// Notifier is fire-and-forget: implementations log failures and never return
// them into the workflow.
type Notifier interface {
	NotifyAssignment(ctx context.Context, app *models.LoanApplication, a *models.Assignment)
	NotifyDecision(ctx context.Context, app *models.LoanApplication)
}

// DecisionRequest is one reviewer action against an application.
type DecisionRequest struct {
	ApplicationID string
	ReviewerID    string
	Tier          models.ReviewTier
	Action        Action
	Reason        string
}

// Workflow owns application lifecycle transitions.
type Workflow struct {
	apps        storage.ApplicationStore
	assignments storage.AssignmentStore
	tx          storage.Transactor
	balancer    Assigner
	refresher   RiskRefresher
	notifier    Notifier
	threshold   int
	log         logger.Logger
	locks       *keyedMutex
}

func New(
	apps storage.ApplicationStore,
	assignments storage.AssignmentStore,
	tx storage.Transactor,
	balancer Assigner,
	refresher RiskRefresher,
	notifier Notifier,
	cfg config.ScreeningConfig,
	log logger.Logger,
) *Workflow {
	return &Workflow{
		apps:        apps,
		assignments: assignments,
		tx:          tx,
		balancer:    balancer,
		refresher:   refresher,
		notifier:    notifier,
		threshold:   cfg.RiskScoreThreshold,
		log:         log,
		locks:       newKeyedMutex(),
	}
}

// Submit registers a new application in SUBMITTED state with an initial risk
// score. Assignment is a separate step so a drained reviewer pool leaves the
// application submitted and retryable.
func (w *Workflow) Submit(ctx context.Context, app *models.LoanApplication) (*models.LoanApplication, error) {
	if app.ApplicationID == "" {
		app.ApplicationID = uuid.New().String()
	}
	now := time.Now().UTC()
	app.Status = models.StatusSubmitted
	app.CreatedAt = now
	app.UpdatedAt = now

	score, tier, err := w.refresher.Refresh(ctx, app)
	if err != nil {
		return nil, err
	}
	app.RiskScore = score
	app.RiskTier = tier

	if err := w.apps.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	w.log.Info("application submitted", map[string]interface{}{
		"application_id": app.ApplicationID,
		"risk_score":     app.RiskScore,
		"risk_tier":      app.RiskTier.String(),
	})
	return app, nil
}

// AssignOfficer moves a submitted application into officer review. The status
// change and the assignment insert commit together; a NoReviewerAvailable
// failure leaves the application submitted.
func (w *Workflow) AssignOfficer(ctx context.Context, applicationID string) (*models.Assignment, error) {
	release := w.locks.lock(applicationID)
	defer release()

	app, err := w.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.StatusSubmitted {
		return nil, w.rejectTransition(app, "ASSIGN")
	}

	var assigned *models.Assignment
	err = w.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := w.balancer.Assign(ctx, app, models.TierOfficer, "")
		if err != nil {
			return err
		}
		assigned = a

		app.Status = models.StatusAssigned
		app.UpdatedAt = time.Now().UTC()
		return w.apps.UpdateApplication(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	w.notifyAssignment(ctx, app, assigned)
	return assigned, nil
}

// Decide applies one reviewer action. Order of checks: transition legality,
// assignment ownership, decision inputs, then the officer authority gate over
// a freshly recomputed risk score.
func (w *Workflow) Decide(ctx context.Context, req DecisionRequest) (*models.LoanApplication, error) {
	release := w.locks.lock(req.ApplicationID)
	defer release()

	app, err := w.apps.GetApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	next, ok := nextStatus(app.Status, req.Tier, req.Action)
	if !ok {
		return nil, w.rejectTransition(app, string(req.Action))
	}

	owning, err := w.assignments.ActiveAssignment(ctx, req.ApplicationID, req.Tier)
	if err != nil {
		return nil, err
	}
	if owning.ReviewerID != req.ReviewerID {
		metrics.WorkflowTransitionsRejected.WithLabelValues(string(errors.ErrCodeValidationFailed)).Inc()
		return nil, errors.NewValidationFailedError("decision submitted by a reviewer who does not hold the assignment")
	}
	if req.Action == ActionReject && req.Reason == "" {
		return nil, errors.NewValidationFailedError("rejection requires a reason")
	}

	if req.Tier == models.TierOfficer && (req.Action == ActionApprove || req.Action == ActionReject) {
		w.refreshRisk(ctx, app)
		if app.RiskScore >= w.threshold {
			metrics.WorkflowTransitionsRejected.WithLabelValues(string(errors.ErrCodeInsufficientAuthority)).Inc()
			return nil, errors.NewInsufficientAuthorityError(app.RiskScore, w.threshold)
		}
	}

	now := time.Now().UTC()
	var escalationTarget *models.Assignment

	err = w.tx.InTx(ctx, func(ctx context.Context) error {
		switch req.Action {
		case ActionApprove, ActionReject:
			app.DecidedBy = req.ReviewerID
			app.DecidedAt = &now
			app.DecisionReason = req.Reason
			owning.Status = models.AssignmentCompleted
			owning.CompletedAt = &now

		case ActionEscalate:
			owning.Status = models.AssignmentEscalated
			owning.CompletedAt = &now
			// Compliance assignment commits with the escalation or not at
			// all: an empty compliance pool aborts the whole transition.
			a, err := w.balancer.Assign(ctx, app, models.TierCompliance, assignment.PriorityHigh)
			if err != nil {
				return err
			}
			escalationTarget = a

		case ActionRequestResubmission:
			owning.Status = models.AssignmentInProgress
			owning.Remarks = req.Reason
		}

		app.Status = next
		app.UpdatedAt = now
		if err := w.assignments.UpdateAssignment(ctx, owning); err != nil {
			return err
		}
		return w.apps.UpdateApplication(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	metrics.WorkflowDecisions.WithLabelValues(string(req.Tier), string(req.Action)).Inc()
	w.log.Info("decision applied", map[string]interface{}{
		"application_id": app.ApplicationID,
		"reviewer_id":    req.ReviewerID,
		"tier":           req.Tier,
		"action":         req.Action,
		"status":         app.Status,
	})

	if escalationTarget != nil {
		w.notifyAssignment(ctx, app, escalationTarget)
	}
	if app.Status.IsTerminal() && w.notifier != nil {
		w.notifier.NotifyDecision(ctx, app)
	}
	return app, nil
}

// AcknowledgeResubmission records the document collaborator's confirmation
// that requested documents arrived, returning the application to its
// compliance reviewer. The risk score is recomputed since the profile may
// have changed.
func (w *Workflow) AcknowledgeResubmission(ctx context.Context, applicationID string) (*models.LoanApplication, error) {
	release := w.locks.lock(applicationID)
	defer release()

	app, err := w.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.StatusUnderReview {
		return nil, w.rejectTransition(app, "ACKNOWLEDGE_RESUBMISSION")
	}

	w.refreshRisk(ctx, app)
	app.Status = models.StatusEscalated
	app.UpdatedAt = time.Now().UTC()
	if err := w.apps.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// refreshRisk recomputes the persisted score, keeping the stored value when
// screening is unavailable.
func (w *Workflow) refreshRisk(ctx context.Context, app *models.LoanApplication) {
	if w.refresher == nil {
		return
	}
	score, tier, err := w.refresher.Refresh(ctx, app)
	if err != nil {
		w.log.WithError(err).Warn("risk refresh failed, keeping stored score", map[string]interface{}{
			"application_id": app.ApplicationID,
			"risk_score":     app.RiskScore,
		})
		return
	}
	app.RiskScore = score
	app.RiskTier = tier
}

func (w *Workflow) rejectTransition(app *models.LoanApplication, action string) error {
	metrics.WorkflowTransitionsRejected.WithLabelValues(string(errors.ErrCodeInvalidTransition)).Inc()
	return errors.NewInvalidTransitionError(string(app.Status), action)
}

func (w *Workflow) notifyAssignment(ctx context.Context, app *models.LoanApplication, a *models.Assignment) {
	if w.notifier == nil || a == nil {
		return
	}
	w.notifier.NotifyAssignment(ctx, app, a)
}
