// internal/storage/postgres/reviewers.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// ListReviewers returns the active pool for one tier, ordered by reviewer id
// so that downstream tie-breaking is deterministic.
func (s *Store) ListReviewers(ctx context.Context, tier models.ReviewTier) ([]models.Reviewer, error) {
	query := `
		SELECT reviewer_id, first_name, last_name, email, loan_type
		FROM reviewers
		WHERE tier = $1 AND active = TRUE
		ORDER BY reviewer_id`

	rows, err := s.q(ctx).QueryContext(ctx, query, tier)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list reviewers", err)
	}
	defer rows.Close()

	var pool []models.Reviewer
	for rows.Next() {
		var (
			id, firstName, lastName string
			email, loanType         sql.NullString
		)
		if err := rows.Scan(&id, &firstName, &lastName, &email, &loanType); err != nil {
			return nil, errors.NewQueryExecutionFailedError("list reviewers", err)
		}
		switch tier {
		case models.TierCompliance:
			pool = append(pool, models.ComplianceOfficer{
				ID: id, FirstName: firstName, LastName: lastName, Email: email.String,
			})
		default:
			pool = append(pool, models.LoanOfficer{
				ID: id, FirstName: firstName, LastName: lastName, Email: email.String, LoanType: loanType.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list reviewers", err)
	}
	return pool, nil
}
