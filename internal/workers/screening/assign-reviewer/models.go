// internal/workers/screening/assign-reviewer/models.go
package assignreviewer

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	AssignmentID string `json:"assignmentId"`
	ReviewerID   string `json:"reviewerId"`
	Tier         string `json:"tier"`
	Status       string `json:"status"`
}
