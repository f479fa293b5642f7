// internal/assignment/balancer_test.go
package assignment

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/storage/memory"
)

func newBalancer(store *memory.Store) *Balancer {
	return NewBalancer(store, store, logger.Nop())
}

func officer(id, loanType string) models.LoanOfficer {
	return models.LoanOfficer{ID: id, FirstName: "Officer", LastName: id, LoanType: loanType}
}

func app(id, loanType string) *models.LoanApplication {
	return &models.LoanApplication{ApplicationID: id, LoanType: loanType, Status: models.StatusSubmitted}
}

func TestAssignPicksLeastLoadedReviewer(t *testing.T) {
	store := memory.NewStore()
	store.AddReviewer(officer("R1", "personal"))
	store.AddReviewer(officer("R2", "personal"))
	balancer := newBalancer(store)
	ctx := context.Background()

	// Load R1 with two active assignments.
	for _, appID := range []string{"A1", "A2"} {
		_, err := balancer.Assign(ctx, app(appID, "personal"), models.TierOfficer, "")
		require.NoError(t, err)
	}
	first, err := store.ActiveAssignment(ctx, "A1", models.TierOfficer)
	require.NoError(t, err)
	second, err := store.ActiveAssignment(ctx, "A2", models.TierOfficer)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"R1", "R2"}, []string{first.ReviewerID, second.ReviewerID})

	// Complete R2's assignment so workloads become R1=1, R2=0.
	var r2Assignment *models.Assignment
	if first.ReviewerID == "R2" {
		r2Assignment = first
	} else {
		r2Assignment = second
	}
	r2Assignment.Status = models.AssignmentCompleted
	require.NoError(t, store.UpdateAssignment(ctx, r2Assignment))

	a, err := balancer.Assign(ctx, app("A3", "personal"), models.TierOfficer, "")
	require.NoError(t, err)
	assert.Equal(t, "R2", a.ReviewerID)
}

func TestAssignBreaksTiesByAscendingReviewerID(t *testing.T) {
	store := memory.NewStore()
	store.AddReviewer(officer("R3", "personal"))
	store.AddReviewer(officer("R1", "personal"))
	store.AddReviewer(officer("R2", "personal"))
	balancer := newBalancer(store)

	a, err := balancer.Assign(context.Background(), app("A1", "personal"), models.TierOfficer, "")
	require.NoError(t, err)
	assert.Equal(t, "R1", a.ReviewerID)
}

func TestAssignPrefersSpecializationMatch(t *testing.T) {
	store := memory.NewStore()
	store.AddReviewer(officer("R1", "personal"))
	store.AddReviewer(officer("R2", "home"))
	balancer := newBalancer(store)

	a, err := balancer.Assign(context.Background(), app("A1", "home"), models.TierOfficer, "")
	require.NoError(t, err)
	assert.Equal(t, "R2", a.ReviewerID)
}

func TestAssignFallsBackToFullPool(t *testing.T) {
	store := memory.NewStore()
	store.AddReviewer(officer("R1", "personal"))
	balancer := newBalancer(store)

	// No gold specialist exists; the personal officer still gets the case.
	a, err := balancer.Assign(context.Background(), app("A1", "gold"), models.TierOfficer, "")
	require.NoError(t, err)
	assert.Equal(t, "R1", a.ReviewerID)
}

func TestAssignEmptyPoolFails(t *testing.T) {
	store := memory.NewStore()
	balancer := newBalancer(store)

	_, err := balancer.Assign(context.Background(), app("A1", "personal"), models.TierOfficer, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoReviewerAvailable))
}

func TestAssignRejectsSecondActiveAssignment(t *testing.T) {
	store := memory.NewStore()
	store.AddReviewer(officer("R1", "personal"))
	balancer := newBalancer(store)
	ctx := context.Background()

	_, err := balancer.Assign(ctx, app("A1", "personal"), models.TierOfficer, "")
	require.NoError(t, err)

	_, err = balancer.Assign(ctx, app("A1", "personal"), models.TierOfficer, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAssignmentConflict))
}

// The workload read and the assignment insert are serialized, so parallel
// assigns over distinct applications must split a two-reviewer pool exactly
// in half rather than stacking the reviewer who looked least loaded at the
// start.
func TestAssignConcurrentSpreadsLoadEvenly(t *testing.T) {
	store := memory.NewStore()
	store.AddReviewer(officer("R1", "personal"))
	store.AddReviewer(officer("R2", "personal"))
	balancer := newBalancer(store)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := balancer.Assign(ctx, app(fmt.Sprintf("A%02d", i), "personal"), models.TierOfficer, "")
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	workload, err := store.WorkloadByReviewer(ctx, models.TierOfficer)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"R1": 5, "R2": 5}, workload)
}

func TestAssignConcurrentSameApplicationSingleWinner(t *testing.T) {
	store := memory.NewStore()
	store.AddReviewer(officer("R1", "personal"))
	store.AddReviewer(officer("R2", "personal"))
	balancer := newBalancer(store)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := balancer.Assign(ctx, app("A1", "personal"), models.TierOfficer, "")
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	succeeded, conflicts := 0, 0
	for err := range errCh {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, errors.ErrCodeAssignmentConflict):
			conflicts++
		default:
			t.Fatalf("unexpected assign error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)

	workload, err := store.WorkloadByReviewer(ctx, models.TierOfficer)
	require.NoError(t, err)
	assert.Equal(t, 1, workload["R1"]+workload["R2"])
}

func TestComplianceOfficersHandleEveryLoanType(t *testing.T) {
	store := memory.NewStore()
	store.AddReviewer(models.ComplianceOfficer{ID: "C1", FirstName: "Asha", LastName: "Rao"})
	balancer := newBalancer(store)

	a, err := balancer.Assign(context.Background(), app("A1", "vehicle"), models.TierCompliance, PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, "C1", a.ReviewerID)
	assert.Equal(t, PriorityHigh, a.Priority)
	assert.Equal(t, models.TierCompliance, a.Tier)
}
