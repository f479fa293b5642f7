// internal/storage/storage.go

// Package storage defines the persistence boundaries consumed by the
// screening components. Implementations live in the postgres and memory
// subpackages.
package storage

import (
	"context"

	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// ApplicationStore persists loan applications. The workflow is the only
// writer of status and decision fields.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *models.LoanApplication) error
	GetApplication(ctx context.Context, applicationID string) (*models.LoanApplication, error)
	UpdateApplication(ctx context.Context, app *models.LoanApplication) error
}

// AssignmentStore persists reviewer assignments and answers the workload
// queries the balancer selects on.
type AssignmentStore interface {
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	GetAssignment(ctx context.Context, assignmentID string) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, a *models.Assignment) error

	// ActiveAssignment returns the single active assignment for the
	// application at the given tier, or APPLICATION-scoped not-found when
	// none exists.
	ActiveAssignment(ctx context.Context, applicationID string, tier models.ReviewTier) (*models.Assignment, error)

	// WorkloadByReviewer counts active assignments per reviewer within one
	// tier. Reviewers with no active assignments may be absent from the map.
	WorkloadByReviewer(ctx context.Context, tier models.ReviewTier) (map[string]int, error)
}

// ReviewerStore reads the reviewer pools.
type ReviewerStore interface {
	// ListReviewers returns the pool sorted by ascending reviewer id. The
	// balancer relies on that order for deterministic tie-breaks, so
	// implementations must sort.
	ListReviewers(ctx context.Context, tier models.ReviewTier) ([]models.Reviewer, error)
}

// SignalStore is the append-only fraud signal audit log.
type SignalStore interface {
	AppendSignals(ctx context.Context, entries []models.AuditEntry) error
	SignalsForApplication(ctx context.Context, applicationID string) ([]models.AuditEntry, error)
}

// ProfileStore is the read-only identity/profile boundary. A missing profile
// is a recoverable miss reported as APPLICANT_NOT_FOUND, not a failure.
type ProfileStore interface {
	GetProfile(ctx context.Context, applicantID string) (*models.ApplicantProfile, error)
}

// Transactor runs fn atomically: every store call made through the returned
// context commits together or not at all.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
