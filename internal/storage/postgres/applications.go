// internal/storage/postgres/applications.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

const applicationColumns = `application_id, applicant_id, loan_amount, loan_type, tenure_months, purpose,
	status, risk_score, risk_tier, decided_by, decided_at, decision_reason, created_at, updated_at`

func (s *Store) CreateApplication(ctx context.Context, app *models.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.q(ctx).ExecContext(ctx, query,
		app.ApplicationID, app.ApplicantID, app.LoanAmount, app.LoanType, app.TenureMonths, app.Purpose,
		app.Status, app.RiskScore, app.RiskTier.String(),
		nullString(app.DecidedBy), app.DecidedAt, nullString(app.DecisionReason),
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create application", err)
	}
	return nil
}

func (s *Store) GetApplication(ctx context.Context, applicationID string) (*models.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE application_id = $1`

	return scanApplication(s.q(ctx).QueryRowContext(ctx, query, applicationID), applicationID)
}

func (s *Store) UpdateApplication(ctx context.Context, app *models.LoanApplication) error {
	query := `
		UPDATE loan_applications
		SET status = $2, risk_score = $3, risk_tier = $4,
			decided_by = $5, decided_at = $6, decision_reason = $7, updated_at = $8
		WHERE application_id = $1`

	res, err := s.q(ctx).ExecContext(ctx, query,
		app.ApplicationID, app.Status, app.RiskScore, app.RiskTier.String(),
		nullString(app.DecidedBy), app.DecidedAt, nullString(app.DecisionReason), app.UpdatedAt,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update application", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update application", err)
	}
	if rows == 0 {
		return errors.NewApplicationNotFoundError(app.ApplicationID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner, applicationID string) (*models.LoanApplication, error) {
	var (
		app            models.LoanApplication
		tier           string
		decidedBy      sql.NullString
		decidedAt      sql.NullTime
		decisionReason sql.NullString
		purpose        sql.NullString
	)

	err := row.Scan(
		&app.ApplicationID, &app.ApplicantID, &app.LoanAmount, &app.LoanType, &app.TenureMonths, &purpose,
		&app.Status, &app.RiskScore, &tier,
		&decidedBy, &decidedAt, &decisionReason, &app.CreatedAt, &app.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewApplicationNotFoundError(applicationID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get application", err)
	}

	app.RiskTier = models.ParseRiskTier(tier)
	app.Purpose = purpose.String
	app.DecidedBy = decidedBy.String
	app.DecisionReason = decisionReason.String
	if decidedAt.Valid {
		t := decidedAt.Time
		app.DecidedAt = &t
	}
	return &app, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
