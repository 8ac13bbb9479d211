package audits

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	record := Record{
		ID:           "audit-1",
		UserID:       "user-1",
		DocumentName: "contract.pdf",
		Status:       StatusCompleted,
		Score:        72,
		Repaired:     true,
		Report: &Report{
			Score:            72,
			Summary:          "Mostly compliant.",
			RedFlags:         []RedFlag{},
			PositiveFindings: []PositiveFinding{},
			Disclaimer:       "Not legal advice.",
		},
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_reports").
		WithArgs(
			record.ID,
			record.UserID,
			record.DocumentName,
			record.Status,
			record.Score,
			record.Repaired,
			sqlmock.AnyArg(), // report json
			nil,              // error_code
			nil,              // error_message
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateFailedRecordNilReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	record := Record{
		ID:           "audit-2",
		UserID:       "user-1",
		DocumentName: "contract.docx",
		Status:       StatusFailed,
		ErrorCode:    ErrorCodeInvalidResponse,
		ErrorMessage: "parse: unexpected end of JSON input",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_reports").
		WithArgs(
			record.ID,
			record.UserID,
			record.DocumentName,
			record.Status,
			0,
			false,
			nil,
			record.ErrorCode,
			record.ErrorMessage,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	reportJSON := `{"score":88,"summary":"ok","red_flags":[],"positive_findings":[],"disclaimer":"n/a"}`
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "document_name", "status", "score", "repaired",
		"report", "error_code", "error_message", "created_at",
	}).AddRow("audit-1", "user-1", "contract.pdf", StatusCompleted, 88, false, reportJSON, nil, nil, now)

	mock.ExpectQuery("SELECT id, user_id, document_name").
		WithArgs("audit-1", "user-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	record, err := repo.GetByID(context.Background(), "user-1", "audit-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if record.Report == nil || record.Report.Score != 88 {
		t.Fatalf("expected parsed report, got %+v", record.Report)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, user_id, document_name").
		WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "document_name", "status", "score", "repaired",
			"report", "error_code", "error_message", "created_at",
		}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "user-1", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoAppendOnly(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	first := Record{ID: "a-1", UserID: "user-1", DocumentName: "c.pdf", Status: StatusCompleted, CreatedAt: time.Now().UTC()}
	second := Record{ID: "a-2", UserID: "user-1", DocumentName: "c.pdf", Status: StatusFailed, CreatedAt: time.Now().UTC().Add(time.Second)}

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	records, err := repo.ListByUser(ctx, "user-1", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 distinct records for same document, got %d", len(records))
	}
	if records[0].ID != "a-2" {
		t.Fatalf("expected newest-first ordering, got %q first", records[0].ID)
	}
}
