// internal/storage/postgres/records.go
package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/screening/external"
)

// Query implements the record-matching collaborator over the mirrored
// registry tables. Identity resolution cascades through the identifiers in
// decreasing strength: PAN, then Aadhaar, then phone, then email, then exact
// normalized name. The first identifier that matches wins; no match returns
// empty findings, not an error.
func (s *Store) Query(ctx context.Context, identity external.Identity) (*external.Findings, error) {
	subjectID, err := s.resolveSubject(ctx, identity)
	if err != nil {
		return nil, err
	}
	if subjectID == "" {
		return &external.Findings{}, nil
	}

	findings := &external.Findings{}

	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM criminal_records WHERE subject_id = $1`, subjectID)
	if err := row.Scan(&findings.CriminalRecords); err != nil {
		return nil, errors.NewQueryExecutionFailedError("count criminal records", err)
	}

	loanRows, err := s.q(ctx).QueryContext(ctx,
		`SELECT loan_id, defaulted, active FROM prior_loans WHERE subject_id = $1`, subjectID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list prior loans", err)
	}
	defer loanRows.Close()
	for loanRows.Next() {
		var loan external.PriorLoan
		if err := loanRows.Scan(&loan.LoanID, &loan.Defaulted, &loan.Active); err != nil {
			return nil, errors.NewQueryExecutionFailedError("list prior loans", err)
		}
		findings.PriorLoans = append(findings.PriorLoans, loan)
	}
	if err := loanRows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list prior loans", err)
	}

	entryRows, err := s.q(ctx).QueryContext(ctx,
		`SELECT source, points, reason FROM fraud_registry_entries WHERE subject_id = $1`, subjectID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list registry entries", err)
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var entry external.RegistryEntry
		var reason sql.NullString
		if err := entryRows.Scan(&entry.Source, &entry.Points, &reason); err != nil {
			return nil, errors.NewQueryExecutionFailedError("list registry entries", err)
		}
		entry.Reason = reason.String
		findings.RegistryEntries = append(findings.RegistryEntries, entry)
	}
	if err := entryRows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list registry entries", err)
	}

	return findings, nil
}

func (s *Store) resolveSubject(ctx context.Context, identity external.Identity) (string, error) {
	lookups := []struct {
		column string
		value  string
	}{
		{"pan_number", identity.PANNumber},
		{"aadhaar_number", identity.AadhaarNumber},
		{"phone", identity.Phone},
		{"email", identity.Email},
		{"normalized_name", normalizeName(identity.FullName)},
	}

	for _, lookup := range lookups {
		if lookup.value == "" {
			continue
		}
		var subjectID string
		err := s.q(ctx).QueryRowContext(ctx,
			`SELECT subject_id FROM registry_subjects WHERE `+lookup.column+` = $1 LIMIT 1`,
			lookup.value,
		).Scan(&subjectID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", errors.NewQueryExecutionFailedError("resolve registry subject", err)
		}
		return subjectID, nil
	}
	return "", nil
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
