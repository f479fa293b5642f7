// internal/models/assignment.go
package models

import "time"

// ReviewTier distinguishes which assignment pool owns the decision right.
type ReviewTier string

const (
	TierOfficer    ReviewTier = "officer"
	TierCompliance ReviewTier = "compliance"
)

// AssignmentStatus is the assignment's own lifecycle, separate from the
// application status.
type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentEscalated  AssignmentStatus = "escalated"
)

// IsActive reports whether the assignment still counts toward a reviewer's
// workload. Escalated and completed assignments do not.
func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentPending || s == AssignmentInProgress
}

// Assignment links an application to exactly one reviewer at a time.
// Invariant held by the balancer: at most one active assignment per
// application per tier.
type Assignment struct {
	AssignmentID  string           `json:"assignmentId"`
	ApplicationID string           `json:"applicationId"`
	ReviewerID    string           `json:"reviewerId"`
	Tier          ReviewTier       `json:"tier"`
	Status        AssignmentStatus `json:"status"`
	Priority      string           `json:"priority,omitempty"`
	Remarks       string           `json:"remarks,omitempty"`
	AssignedAt    time.Time        `json:"assignedAt"`
	CompletedAt   *time.Time       `json:"completedAt,omitempty"`
}
