package legalcontext

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "content", "created_at"}).
		AddRow("a-1", "Leave", "Minimum annual leave is 21 working days.", now).
		AddRow("a-2", "Overtime", "Overtime must be compensated.", now.Add(time.Minute))

	mock.ExpectQuery("SELECT id, title, content, created_at").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	articles, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Leave" || articles[1].Title != "Overtime" {
		t.Fatalf("unexpected ordering: %q then %q", articles[0].Title, articles[1].Title)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
