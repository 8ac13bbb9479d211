package audits

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres. Records are insert-only; the
// audit trail never mutates a row after creation.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new audit record.
func (r *PGRepo) Create(ctx context.Context, record Record) error {
	const query = `
INSERT INTO audit_reports (
	id, user_id, document_name, status, score, repaired, report, error_code, error_message, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	reportPayload, err := marshalReport(record.Report)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.DocumentName,
		record.Status,
		record.Score,
		record.Repaired,
		reportPayload,
		nullString(record.ErrorCode),
		nullString(record.ErrorMessage),
		record.CreatedAt,
	)
	return err
}

// GetByID returns a record by ID scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, recordID string) (Record, error) {
	const query = `
SELECT id, user_id, document_name, status, score, repaired, report, error_code, error_message, created_at
FROM audit_reports
WHERE id = $1 AND user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, recordID, userID)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return record, nil
}

// ListByUser returns records for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, document_name, status, score, repaired, report, error_code, error_message, created_at
FROM audit_reports
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var record Record
	var report sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.DocumentName,
		&record.Status,
		&record.Score,
		&record.Repaired,
		&report,
		&errorCode,
		&errorMessage,
		&record.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if report.Valid {
		var parsed Report
		if err := json.Unmarshal([]byte(report.String), &parsed); err == nil {
			record.Report = &parsed
		}
	}
	if errorCode.Valid {
		record.ErrorCode = errorCode.String
	}
	if errorMessage.Valid {
		record.ErrorMessage = errorMessage.String
	}
	return record, nil
}

func marshalReport(report *Report) (any, error) {
	if report == nil {
		return nil, nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
