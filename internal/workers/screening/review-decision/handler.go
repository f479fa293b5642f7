// internal/workers/screening/review-decision/handler.go
package reviewdecision

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/workflow"
)

const (
	TaskType = "review-decision"
)

type Handler struct {
	workflow *workflow.Workflow
	config   *Config
	logger   logger.Logger
	errors   *errors.ErrorHandler
}

func NewHandler(wf *workflow.Workflow, config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		workflow: wf,
		config:   config,
		logger:   scoped,
		errors:   errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, errors.NewValidationFailedError(err.Error()))
		return
	}

	req, err := buildRequest(&input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	app, err := h.workflow.Decide(ctx, req)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, &Output{
		ApplicationID: app.ApplicationID,
		Status:        string(app.Status),
		RiskScore:     app.RiskScore,
		RiskTier:      app.RiskTier.String(),
		DecidedBy:     app.DecidedBy,
	})
}

func buildRequest(input *Input) (workflow.DecisionRequest, error) {
	var req workflow.DecisionRequest

	if input.ApplicationID == "" || input.ReviewerID == "" {
		return req, errors.NewValidationFailedError("applicationId and reviewerId are required")
	}

	var tier models.ReviewTier
	switch input.Tier {
	case string(models.TierOfficer):
		tier = models.TierOfficer
	case string(models.TierCompliance):
		tier = models.TierCompliance
	default:
		return req, errors.NewValidationFailedError(fmt.Sprintf("unknown review tier %q", input.Tier))
	}

	var action workflow.Action
	switch workflow.Action(input.Action) {
	case workflow.ActionApprove, workflow.ActionReject, workflow.ActionEscalate, workflow.ActionRequestResubmission:
		action = workflow.Action(input.Action)
	default:
		return req, errors.NewValidationFailedError(fmt.Sprintf("unknown action %q", input.Action))
	}

	return workflow.DecisionRequest{
		ApplicationID: input.ApplicationID,
		ReviewerID:    input.ReviewerID,
		Tier:          tier,
		Action:        action,
		Reason:        input.Reason,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}
