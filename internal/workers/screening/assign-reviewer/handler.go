// internal/workers/screening/assign-reviewer/handler.go
package assignreviewer

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/workflow"
)

const (
	TaskType = "assign-reviewer"
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
	if input.ApplicationID == "" {
		h.errors.HandleJobError(ctx, client, job, errors.NewValidationFailedError("applicationId is required"))
		return
	}

	// NO_REVIEWER_AVAILABLE is retryable here: the application stays
	// submitted and the job fails with retries left.
	a, err := h.workflow.AssignOfficer(ctx, input.ApplicationID)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, &Output{
		AssignmentID: a.AssignmentID,
		ReviewerID:   a.ReviewerID,
		Tier:         string(a.Tier),
		Status:       string(a.Status),
	})
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
