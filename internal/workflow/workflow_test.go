// internal/workflow/workflow_test.go
package workflow

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahek226/LoanManagementSystem/internal/assignment"
	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/storage/memory"
)

type stubRefresher struct {
	score int
	tier  models.RiskTier
	err   error
	calls int
}

func (r *stubRefresher) Refresh(_ context.Context, _ *models.LoanApplication) (int, models.RiskTier, error) {
	r.calls++
	if r.err != nil {
		return 0, models.TierClean, r.err
	}
	return r.score, r.tier, nil
}

type stubNotifier struct {
	assignments int
	decisions   int
}

func (n *stubNotifier) NotifyAssignment(_ context.Context, _ *models.LoanApplication, _ *models.Assignment) {
	n.assignments++
}

func (n *stubNotifier) NotifyDecision(_ context.Context, _ *models.LoanApplication) {
	n.decisions++
}

type fixture struct {
	store     *memory.Store
	workflow  *Workflow
	refresher *stubRefresher
	notifier  *stubNotifier
}

func newFixture(t *testing.T, score int) *fixture {
	t.Helper()
	store := memory.NewStore()
	refresher := &stubRefresher{score: score, tier: models.TierLow}
	notifier := &stubNotifier{}
	balancer := assignment.NewBalancer(store, store, logger.Nop())

	wf := New(store, store, store, balancer, refresher, notifier, config.DefaultScreening(), logger.Nop())
	return &fixture{store: store, workflow: wf, refresher: refresher, notifier: notifier}
}

func (f *fixture) submitAndAssign(t *testing.T) *models.LoanApplication {
	t.Helper()
	ctx := context.Background()
	f.store.AddReviewer(models.LoanOfficer{ID: "OFF-1", FirstName: "Neha", LastName: "Patil", LoanType: "personal"})

	app, err := f.workflow.Submit(ctx, &models.LoanApplication{
		ApplicantID: "APPL-1",
		LoanAmount:  400000,
		LoanType:    "personal",
	})
	require.NoError(t, err)

	_, err = f.workflow.AssignOfficer(ctx, app.ApplicationID)
	require.NoError(t, err)
	return app
}

func TestSubmitStampsRiskScore(t *testing.T) {
	f := newFixture(t, 42)

	app, err := f.workflow.Submit(context.Background(), &models.LoanApplication{
		ApplicantID: "APPL-1",
		LoanAmount:  400000,
		LoanType:    "personal",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, app.ApplicationID)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.Equal(t, 42, app.RiskScore)
	assert.Equal(t, models.TierLow, app.RiskTier)
}

func TestAssignOfficerEmptyPoolLeavesApplicationSubmitted(t *testing.T) {
	f := newFixture(t, 20)
	ctx := context.Background()

	app, err := f.workflow.Submit(ctx, &models.LoanApplication{ApplicantID: "APPL-1", LoanType: "personal"})
	require.NoError(t, err)

	_, err = f.workflow.AssignOfficer(ctx, app.ApplicationID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoReviewerAvailable))

	stored, err := f.store.GetApplication(ctx, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, stored.Status)
}

func TestOfficerApproveBelowThreshold(t *testing.T) {
	f := newFixture(t, 40)
	ctx := context.Background()
	app := f.submitAndAssign(t)

	decided, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, decided.Status)
	assert.Equal(t, "OFF-1", decided.DecidedBy)
	require.NotNil(t, decided.DecidedAt)
	assert.Equal(t, 1, f.notifier.decisions)

	_, err = f.store.ActiveAssignment(ctx, app.ApplicationID, models.TierOfficer)
	assert.Error(t, err, "assignment must be completed, not active")
}

func TestOfficerDecisionAboveThresholdRequiresEscalation(t *testing.T) {
	f := newFixture(t, 75)
	ctx := context.Background()
	f.store.AddReviewer(models.ComplianceOfficer{ID: "CMP-1", FirstName: "Asha", LastName: "Rao"})
	app := f.submitAndAssign(t)

	_, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionApprove,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInsufficientAuthority))

	stored, err := f.store.GetApplication(ctx, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, stored.Status, "failed gate must not mutate state")

	decided, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionEscalate,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusEscalated, decided.Status)

	compliance, err := f.store.ActiveAssignment(ctx, app.ApplicationID, models.TierCompliance)
	require.NoError(t, err)
	assert.Equal(t, "CMP-1", compliance.ReviewerID)
	assert.Equal(t, assignment.PriorityHigh, compliance.Priority)

	_, err = f.store.ActiveAssignment(ctx, app.ApplicationID, models.TierOfficer)
	assert.Error(t, err, "officer assignment must be marked escalated")
}

func TestEscalateWithEmptyCompliancePoolFailsClosed(t *testing.T) {
	f := newFixture(t, 75)
	ctx := context.Background()
	app := f.submitAndAssign(t)

	_, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionEscalate,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoReviewerAvailable))

	stored, err := f.store.GetApplication(ctx, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, stored.Status)

	officerAssignment, err := f.store.ActiveAssignment(ctx, app.ApplicationID, models.TierOfficer)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentPending, officerAssignment.Status)
}

func TestComplianceApprovesUnconditionally(t *testing.T) {
	f := newFixture(t, 90)
	ctx := context.Background()
	f.store.AddReviewer(models.ComplianceOfficer{ID: "CMP-1", FirstName: "Asha", LastName: "Rao"})
	app := f.submitAndAssign(t)

	_, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionEscalate,
	})
	require.NoError(t, err)

	decided, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "CMP-1",
		Tier:          models.TierCompliance,
		Action:        ActionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)
	assert.Equal(t, "CMP-1", decided.DecidedBy)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t, 40)
	app := f.submitAndAssign(t)

	_, err := f.workflow.Decide(context.Background(), DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionReject,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidationFailed))
}

func TestDecisionByNonAssignedReviewerRejected(t *testing.T) {
	f := newFixture(t, 40)
	app := f.submitAndAssign(t)

	_, err := f.workflow.Decide(context.Background(), DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-99",
		Tier:          models.TierOfficer,
		Action:        ActionApprove,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidationFailed))
}

func TestTerminalStatesAreAppendOnly(t *testing.T) {
	f := newFixture(t, 40)
	ctx := context.Background()
	app := f.submitAndAssign(t)

	_, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionApprove,
	})
	require.NoError(t, err)

	_, err = f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionReject,
		Reason:        "changed my mind",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTransition))

	stored, err := f.store.GetApplication(ctx, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
}

func TestRequestResubmissionRoundTrip(t *testing.T) {
	f := newFixture(t, 90)
	ctx := context.Background()
	f.store.AddReviewer(models.ComplianceOfficer{ID: "CMP-1", FirstName: "Asha", LastName: "Rao"})
	app := f.submitAndAssign(t)

	_, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionEscalate,
	})
	require.NoError(t, err)

	decided, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "CMP-1",
		Tier:          models.TierCompliance,
		Action:        ActionRequestResubmission,
		Reason:        "income proof unreadable",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, decided.Status)

	// The same compliance assignment stays active; no second balancer pass.
	held, err := f.store.ActiveAssignment(ctx, app.ApplicationID, models.TierCompliance)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentInProgress, held.Status)
	assert.Equal(t, "income proof unreadable", held.Remarks)

	acked, err := f.workflow.AcknowledgeResubmission(ctx, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEscalated, acked.Status)

	final, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "CMP-1",
		Tier:          models.TierCompliance,
		Action:        ActionReject,
		Reason:        "income could not be verified",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, final.Status)
	assert.Equal(t, "income could not be verified", final.DecisionReason)
}

// Transitions on one application are serialized by the per-application lock:
// racing approvals must produce exactly one completed decision, with the
// losers seeing the terminal state instead of double-stamping it.
func TestConcurrentDecisionsSingleWinner(t *testing.T) {
	f := newFixture(t, 40)
	ctx := context.Background()
	app := f.submitAndAssign(t)

	const n = 8
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.workflow.Decide(ctx, DecisionRequest{
				ApplicationID: app.ApplicationID,
				ReviewerID:    "OFF-1",
				Tier:          models.TierOfficer,
				Action:        ActionApprove,
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	succeeded, rejected := 0, 0
	for err := range errCh {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, errors.ErrCodeInvalidTransition):
			rejected++
		default:
			t.Fatalf("unexpected decide error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, rejected)

	stored, err := f.store.GetApplication(ctx, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, 1, f.notifier.decisions)

	_, err = f.store.ActiveAssignment(ctx, app.ApplicationID, models.TierOfficer)
	assert.Error(t, err, "the winning approval must complete the assignment exactly once")
}

func TestRiskRefreshFailureKeepsStoredScore(t *testing.T) {
	f := newFixture(t, 40)
	ctx := context.Background()
	app := f.submitAndAssign(t)

	// Screening goes down after submission; the stored score still gates.
	f.refresher.err = stderrors.New("profile store unreachable")

	decided, err := f.workflow.Decide(ctx, DecisionRequest{
		ApplicationID: app.ApplicationID,
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Action:        ActionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)
	assert.Equal(t, 40, decided.RiskScore)
}
