// internal/storage/postgres/profiles.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// GetProfile assembles the applicant snapshot the scoring engine consumes.
// DuplicateContact is computed here, against the full applicant table, so the
// identity rules stay pure.
func (s *Store) GetProfile(ctx context.Context, applicantID string) (*models.ApplicantProfile, error) {
	query := `
		SELECT a.applicant_id, a.first_name, a.last_name, a.email, a.phone, a.address,
			a.date_of_birth, a.pan_number, a.aadhaar_number,
			EXISTS (
				SELECT 1 FROM applicants o
				WHERE o.applicant_id <> a.applicant_id
					AND ((a.phone <> '' AND o.phone = a.phone) OR (a.email <> '' AND o.email = a.email))
			) AS duplicate_contact,
			f.annual_income, f.existing_debt, f.credit_score, f.has_bankruptcy, f.default_count,
			e.employer_name, e.occupation, e.monthly_income, e.years_in_current,
			d.full_name, d.date_of_birth, d.address, d.pan_number, d.aadhaar_number
		FROM applicants a
		LEFT JOIN financial_records f ON f.applicant_id = a.applicant_id
		LEFT JOIN employment_records e ON e.applicant_id = a.applicant_id
		LEFT JOIN document_identities d ON d.applicant_id = a.applicant_id
		WHERE a.applicant_id = $1`

	var (
		p models.ApplicantProfile

		email, phone, address, pan, aadhaar sql.NullString
		dob                                 sql.NullTime

		annualIncome, existingDebt sql.NullFloat64
		creditScore                sql.NullInt64
		hasBankruptcy              sql.NullBool
		defaultCount               sql.NullInt64

		employerName, occupation      sql.NullString
		monthlyIncome, yearsInCurrent sql.NullFloat64

		docName, docAddress, docPAN, docAadhaar sql.NullString
		docDOB                                  sql.NullTime
	)

	err := s.q(ctx).QueryRowContext(ctx, query, applicantID).Scan(
		&p.ApplicantID, &p.FirstName, &p.LastName, &email, &phone, &address,
		&dob, &pan, &aadhaar, &p.DuplicateContact,
		&annualIncome, &existingDebt, &creditScore, &hasBankruptcy, &defaultCount,
		&employerName, &occupation, &monthlyIncome, &yearsInCurrent,
		&docName, &docDOB, &docAddress, &docPAN, &docAadhaar,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewApplicantNotFoundError(applicantID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get profile", err)
	}

	p.Email = email.String
	p.Phone = phone.String
	p.Address = address.String
	p.PANNumber = pan.String
	p.AadhaarNumber = aadhaar.String
	if dob.Valid {
		t := dob.Time
		p.DateOfBirth = &t
	}

	if annualIncome.Valid || existingDebt.Valid || creditScore.Valid || hasBankruptcy.Valid {
		p.Financial = &models.FinancialRecord{
			HasBankruptcy: hasBankruptcy.Bool,
			DefaultCount:  int(defaultCount.Int64),
		}
		if annualIncome.Valid {
			v := annualIncome.Float64
			p.Financial.AnnualIncome = &v
		}
		if existingDebt.Valid {
			v := existingDebt.Float64
			p.Financial.ExistingDebt = &v
		}
		if creditScore.Valid {
			v := int(creditScore.Int64)
			p.Financial.CreditScore = &v
		}
	}

	if employerName.Valid || monthlyIncome.Valid {
		p.Employment = &models.EmploymentRecord{
			EmployerName: employerName.String,
			Occupation:   occupation.String,
		}
		if monthlyIncome.Valid {
			v := monthlyIncome.Float64
			p.Employment.MonthlyIncome = &v
		}
		if yearsInCurrent.Valid {
			v := yearsInCurrent.Float64
			p.Employment.YearsInCurrent = &v
		}
	}

	if docName.Valid || docDOB.Valid || docAddress.Valid {
		p.Document = &models.DocumentIdentity{
			FullName:      docName.String,
			Address:       docAddress.String,
			PANNumber:     docPAN.String,
			AadhaarNumber: docAadhaar.String,
		}
		if docDOB.Valid {
			t := docDOB.Time
			p.Document.DateOfBirth = &t
		}
	}

	return &p, nil
}
