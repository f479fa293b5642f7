// internal/storage/postgres/assignments.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

const assignmentColumns = `assignment_id, application_id, reviewer_id, tier, status, priority, remarks, assigned_at, completed_at`

// activeStatuses is inlined into the workload/conflict queries; keep it in
// sync with AssignmentStatus.IsActive.
const activeStatuses = `('pending', 'in_progress')`

func (s *Store) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	// Conditional insert enforces at most one active assignment per
	// application per tier without a read-then-write race.
	query := `
		INSERT INTO review_assignments (` + assignmentColumns + `)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
		WHERE NOT EXISTS (
			SELECT 1 FROM review_assignments
			WHERE application_id = $2 AND tier = $4 AND status IN ` + activeStatuses + `
		)`

	res, err := s.q(ctx).ExecContext(ctx, query,
		a.AssignmentID, a.ApplicationID, a.ReviewerID, a.Tier, a.Status,
		nullString(a.Priority), nullString(a.Remarks), a.AssignedAt, a.CompletedAt,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create assignment", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("create assignment", err)
	}
	if rows == 0 {
		return errors.NewAssignmentConflictError(a.ApplicationID, string(a.Tier))
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, assignmentID string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM review_assignments WHERE assignment_id = $1`
	return scanAssignment(s.q(ctx).QueryRowContext(ctx, query, assignmentID), assignmentID)
}

func (s *Store) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	query := `
		UPDATE review_assignments
		SET status = $2, priority = $3, remarks = $4, completed_at = $5
		WHERE assignment_id = $1`

	res, err := s.q(ctx).ExecContext(ctx, query,
		a.AssignmentID, a.Status, nullString(a.Priority), nullString(a.Remarks), a.CompletedAt,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update assignment", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update assignment", err)
	}
	if rows == 0 {
		return errors.NewAssignmentNotFoundError(a.AssignmentID)
	}
	return nil
}

func (s *Store) ActiveAssignment(ctx context.Context, applicationID string, tier models.ReviewTier) (*models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM review_assignments
		WHERE application_id = $1 AND tier = $2 AND status IN ` + activeStatuses + `
		ORDER BY assigned_at DESC LIMIT 1`

	return scanAssignment(s.q(ctx).QueryRowContext(ctx, query, applicationID, tier), applicationID)
}

func (s *Store) WorkloadByReviewer(ctx context.Context, tier models.ReviewTier) (map[string]int, error) {
	query := `
		SELECT reviewer_id, COUNT(*)
		FROM review_assignments
		WHERE tier = $1 AND status IN ` + activeStatuses + `
		GROUP BY reviewer_id`

	rows, err := s.q(ctx).QueryContext(ctx, query, tier)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("reviewer workload", err)
	}
	defer rows.Close()

	workload := make(map[string]int)
	for rows.Next() {
		var reviewerID string
		var count int
		if err := rows.Scan(&reviewerID, &count); err != nil {
			return nil, errors.NewQueryExecutionFailedError("reviewer workload", err)
		}
		workload[reviewerID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("reviewer workload", err)
	}
	return workload, nil
}

func scanAssignment(row rowScanner, id string) (*models.Assignment, error) {
	var (
		a           models.Assignment
		priority    sql.NullString
		remarks     sql.NullString
		completedAt sql.NullTime
	)

	err := row.Scan(
		&a.AssignmentID, &a.ApplicationID, &a.ReviewerID, &a.Tier, &a.Status,
		&priority, &remarks, &a.AssignedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewAssignmentNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get assignment", err)
	}

	a.Priority = priority.String
	a.Remarks = remarks.String
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	return &a, nil
}
