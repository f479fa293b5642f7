// internal/workers/screening/review-decision/handler_test.go
package reviewdecision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/workflow"
)

func TestBuildRequestValidInput(t *testing.T) {
	req, err := buildRequest(&Input{
		ApplicationID: "A1",
		ReviewerID:    "OFF-1",
		Tier:          "officer",
		Action:        "ESCALATE",
		Reason:        "needs compliance sign-off",
	})
	require.NoError(t, err)

	assert.Equal(t, "A1", req.ApplicationID)
	assert.Equal(t, models.TierOfficer, req.Tier)
	assert.Equal(t, workflow.ActionEscalate, req.Action)
	assert.Equal(t, "needs compliance sign-off", req.Reason)
}

func TestBuildRequestRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{"missing application id", Input{ReviewerID: "OFF-1", Tier: "officer", Action: "APPROVE"}},
		{"missing reviewer id", Input{ApplicationID: "A1", Tier: "officer", Action: "APPROVE"}},
		{"unknown tier", Input{ApplicationID: "A1", ReviewerID: "OFF-1", Tier: "supervisor", Action: "APPROVE"}},
		{"unknown action", Input{ApplicationID: "A1", ReviewerID: "OFF-1", Tier: "officer", Action: "DEFER"}},
		{"lowercase action", Input{ApplicationID: "A1", ReviewerID: "OFF-1", Tier: "officer", Action: "approve"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRequest(&tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeValidationFailed))
		})
	}
}

func TestBuildRequestComplianceActions(t *testing.T) {
	for _, action := range []string{"APPROVE", "REJECT", "REQUEST_RESUBMISSION"} {
		req, err := buildRequest(&Input{
			ApplicationID: "A1",
			ReviewerID:    "CMP-1",
			Tier:          "compliance",
			Action:        action,
			Reason:        "documented",
		})
		require.NoError(t, err, action)
		assert.Equal(t, models.TierCompliance, req.Tier)
	}
}
