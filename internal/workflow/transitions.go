// internal/workflow/transitions.go
package workflow

import (
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// Action is a reviewer decision request.
type Action string

const (
	ActionApprove             Action = "APPROVE"
	ActionReject              Action = "REJECT"
	ActionEscalate            Action = "ESCALATE"
	ActionRequestResubmission Action = "REQUEST_RESUBMISSION"
)

type transitionKey struct {
	status models.ApplicationStatus
	tier   models.ReviewTier
	action Action
}

// transitions is the full legality table: a (status, tier, action) triple
// absent from this map is an invalid transition, checked before any state is
// touched. The authority gate on officer approve/reject is layered on top.
var transitions = map[transitionKey]models.ApplicationStatus{
	{models.StatusAssigned, models.TierOfficer, ActionApprove}:  models.StatusApproved,
	{models.StatusAssigned, models.TierOfficer, ActionReject}:   models.StatusRejected,
	{models.StatusAssigned, models.TierOfficer, ActionEscalate}: models.StatusEscalated,

	{models.StatusEscalated, models.TierCompliance, ActionApprove}:             models.StatusApproved,
	{models.StatusEscalated, models.TierCompliance, ActionReject}:              models.StatusRejected,
	{models.StatusEscalated, models.TierCompliance, ActionRequestResubmission}: models.StatusUnderReview,

	// After a resubmission round the same compliance assignment still owns
	// the decision.
	{models.StatusUnderReview, models.TierCompliance, ActionApprove}:             models.StatusApproved,
	{models.StatusUnderReview, models.TierCompliance, ActionReject}:              models.StatusRejected,
	{models.StatusUnderReview, models.TierCompliance, ActionRequestResubmission}: models.StatusUnderReview,
}

// nextStatus resolves the target status for a decision, or false when the
// action is not legal in the current state.
func nextStatus(status models.ApplicationStatus, tier models.ReviewTier, action Action) (models.ApplicationStatus, bool) {
	next, ok := transitions[transitionKey{status, tier, action}]
	return next, ok
}
