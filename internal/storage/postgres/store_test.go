// internal/storage/postgres/store_test.go
package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func applicationRow(appID string, decided bool) *sqlmock.Rows {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"application_id", "applicant_id", "loan_amount", "loan_type", "tenure_months", "purpose",
		"status", "risk_score", "risk_tier", "decided_by", "decided_at", "decision_reason",
		"created_at", "updated_at",
	})
	if decided {
		rows.AddRow(appID, "APPL-1", 3000000.0, "PERSONAL", 36, "home renovation",
			"approved", 55, "MEDIUM", "OFF-1", now, "clean record", now, now)
	} else {
		rows.AddRow(appID, "APPL-1", 3000000.0, "PERSONAL", 36, nil,
			"submitted", 55, "MEDIUM", nil, nil, nil, now, now)
	}
	return rows
}

func TestGetApplication_ScansNullableColumns(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM loan_applications WHERE application_id = \$1`).
		WithArgs("APP-1").
		WillReturnRows(applicationRow("APP-1", false))

	app, err := store.GetApplication(context.Background(), "APP-1")
	require.NoError(t, err)

	assert.Equal(t, "APP-1", app.ApplicationID)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.Equal(t, models.TierMedium, app.RiskTier)
	assert.Empty(t, app.Purpose)
	assert.Empty(t, app.DecidedBy)
	assert.Nil(t, app.DecidedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplication_DecisionFieldsRoundTrip(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM loan_applications`).
		WithArgs("APP-1").
		WillReturnRows(applicationRow("APP-1", true))

	app, err := store.GetApplication(context.Background(), "APP-1")
	require.NoError(t, err)

	assert.Equal(t, "OFF-1", app.DecidedBy)
	require.NotNil(t, app.DecidedAt)
	assert.Equal(t, "clean record", app.DecisionReason)
}

func TestGetApplication_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM loan_applications`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"application_id"}))

	_, err := store.GetApplication(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrCodeApplicationNotFound))
}

func TestUpdateApplication_ZeroRowsIsNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE loan_applications`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateApplication(context.Background(), &models.LoanApplication{
		ApplicationID: "missing",
		Status:        models.StatusAssigned,
	})
	assert.True(t, errors.Is(err, errors.ErrCodeApplicationNotFound))
}

func TestCreateAssignment_ConflictWhenActiveExists(t *testing.T) {
	store, mock := newMockStore(t)

	// The conditional insert matches zero rows when an active assignment
	// already holds the (application, tier) slot.
	mock.ExpectExec(`INSERT INTO review_assignments`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.CreateAssignment(context.Background(), &models.Assignment{
		AssignmentID:  "ASG-2",
		ApplicationID: "APP-1",
		ReviewerID:    "OFF-2",
		Tier:          models.TierOfficer,
		Status:        models.AssignmentPending,
		AssignedAt:    time.Now().UTC(),
	})
	assert.True(t, errors.Is(err, errors.ErrCodeAssignmentConflict))
}

func TestCreateAssignment_Inserted(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO review_assignments`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.CreateAssignment(context.Background(), &models.Assignment{
		AssignmentID:  "ASG-1",
		ApplicationID: "APP-1",
		ReviewerID:    "OFF-1",
		Tier:          models.TierOfficer,
		Status:        models.AssignmentPending,
		AssignedAt:    time.Now().UTC(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkloadByReviewer(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT reviewer_id, COUNT\(\*\)`).
		WithArgs(models.TierOfficer).
		WillReturnRows(sqlmock.NewRows([]string{"reviewer_id", "count"}).
			AddRow("OFF-1", 3).
			AddRow("OFF-2", 1))

	workload, err := store.WorkloadByReviewer(context.Background(), models.TierOfficer)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"OFF-1": 3, "OFF-2": 1}, workload)
}

func TestInTx_CommitsAndSharesTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE loan_applications`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO review_assignments`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.InTx(context.Background(), func(ctx context.Context) error {
		if err := store.UpdateApplication(ctx, &models.LoanApplication{
			ApplicationID: "APP-1",
			Status:        models.StatusAssigned,
		}); err != nil {
			return err
		}
		return store.CreateAssignment(ctx, &models.Assignment{
			AssignmentID:  "ASG-1",
			ApplicationID: "APP-1",
			ReviewerID:    "OFF-1",
			Tier:          models.TierOfficer,
			Status:        models.AssignmentPending,
			AssignedAt:    time.Now().UTC(),
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE loan_applications`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.InTx(context.Background(), func(ctx context.Context) error {
		return store.UpdateApplication(ctx, &models.LoanApplication{
			ApplicationID: "missing",
			Status:        models.StatusAssigned,
		})
	})
	assert.True(t, errors.Is(err, errors.ErrCodeApplicationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_NestedCallJoinsOuterTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	// A single Begin/Commit pair: the inner InTx must not open its own.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE loan_applications`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.InTx(context.Background(), func(ctx context.Context) error {
		return store.InTx(ctx, func(ctx context.Context) error {
			return store.UpdateApplication(ctx, &models.LoanApplication{
				ApplicationID: "APP-1",
				Status:        models.StatusAssigned,
			})
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveAssignment_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM review_assignments`).
		WithArgs("APP-1", models.TierCompliance).
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id"}))

	_, err := store.ActiveAssignment(context.Background(), "APP-1", models.TierCompliance)
	assert.True(t, errors.Is(err, errors.ErrCodeAssignmentNotFound))
}
