// internal/assignment/balancer.go

// Package assignment distributes applications across reviewer pools by
// current workload.
package assignment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/common/metrics"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/storage"
)

// PriorityHigh marks assignments created by escalation.
const PriorityHigh = "HIGH"

// Balancer assigns applications to the least-loaded eligible reviewer.
type Balancer struct {
	reviewers   storage.ReviewerStore
	assignments storage.AssignmentStore
	log         logger.Logger

	// mu serializes the workload read against the assignment insert so two
	// concurrent assigns cannot both land on the same "least loaded"
	// reviewer.
	mu sync.Mutex
}

func NewBalancer(reviewers storage.ReviewerStore, assignments storage.AssignmentStore, log logger.Logger) *Balancer {
	return &Balancer{
		reviewers:   reviewers,
		assignments: assignments,
		log:         log,
	}
}

// Assign selects a reviewer for the application at the given tier and creates
// a pending assignment. Selection: reviewers whose specialization matches the
// loan type, falling back to the whole tier pool; fewest active assignments
// wins, ties broken by ascending reviewer id.
func (b *Balancer) Assign(ctx context.Context, app *models.LoanApplication, tier models.ReviewTier, priority string) (*models.Assignment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pool, err := b.reviewers.ListReviewers(ctx, tier)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, errors.NewNoReviewerAvailableError(string(tier))
	}

	candidates := matchSpecialization(pool, app.LoanType)
	if len(candidates) == 0 {
		candidates = pool
	}

	workload, err := b.assignments.WorkloadByReviewer(ctx, tier)
	if err != nil {
		return nil, err
	}

	chosen := leastLoaded(candidates, workload)

	a := &models.Assignment{
		AssignmentID:  uuid.New().String(),
		ApplicationID: app.ApplicationID,
		ReviewerID:    chosen.ReviewerID(),
		Tier:          tier,
		Status:        models.AssignmentPending,
		Priority:      priority,
		AssignedAt:    time.Now().UTC(),
	}
	if err := b.assignments.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}

	metrics.AssignmentsCreated.WithLabelValues(string(tier)).Inc()
	b.log.Info("application assigned", map[string]interface{}{
		"application_id": app.ApplicationID,
		"reviewer_id":    chosen.ReviewerID(),
		"tier":           tier,
		"workload":       workload[chosen.ReviewerID()],
	})
	return a, nil
}

func matchSpecialization(pool []models.Reviewer, loanType string) []models.Reviewer {
	var matched []models.Reviewer
	for _, r := range pool {
		if r.Specialization() == "" || r.Specialization() == loanType {
			matched = append(matched, r)
		}
	}
	return matched
}

// leastLoaded assumes candidates are sorted by ascending reviewer id, so a
// strict comparison keeps the lowest id on ties.
func leastLoaded(candidates []models.Reviewer, workload map[string]int) models.Reviewer {
	chosen := candidates[0]
	best := workload[chosen.ReviewerID()]
	for _, r := range candidates[1:] {
		if workload[r.ReviewerID()] < best {
			chosen = r
			best = workload[r.ReviewerID()]
		}
	}
	return chosen
}
