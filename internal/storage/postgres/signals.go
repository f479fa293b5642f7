// internal/storage/postgres/signals.go
package postgres

import (
	"context"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// AppendSignals inserts audit entries. The table carries no update path;
// rows are immutable once written.
func (s *Store) AppendSignals(ctx context.Context, entries []models.AuditEntry) error {
	query := `
		INSERT INTO fraud_signals (entry_id, application_id, source, signal_name, category, points, description, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, e := range entries {
		_, err := s.q(ctx).ExecContext(ctx, query,
			e.EntryID, e.ApplicationID, e.Source,
			e.Signal.Name, e.Signal.Category, e.Signal.Points, e.Signal.Description,
			e.RecordedAt,
		)
		if err != nil {
			return errors.NewQueryExecutionFailedError("append signal", err)
		}
	}
	return nil
}

func (s *Store) SignalsForApplication(ctx context.Context, applicationID string) ([]models.AuditEntry, error) {
	query := `
		SELECT entry_id, application_id, source, signal_name, category, points, description, recorded_at
		FROM fraud_signals
		WHERE application_id = $1
		ORDER BY recorded_at, entry_id`

	rows, err := s.q(ctx).QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list signals", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(
			&e.EntryID, &e.ApplicationID, &e.Source,
			&e.Signal.Name, &e.Signal.Category, &e.Signal.Points, &e.Signal.Description,
			&e.RecordedAt,
		); err != nil {
			return nil, errors.NewQueryExecutionFailedError("list signals", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list signals", err)
	}
	return entries, nil
}
