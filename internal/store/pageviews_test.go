package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestInsertPageView(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO page_views`)).
		WithArgs("/leaderboard", "visitor-1", "session-1", "Mozilla/5.0", "https://example.com").
		WillReturnResult(sqlmock.NewResult(1, 1))

	view := PageView{
		PagePath:  "/leaderboard",
		VisitorID: "visitor-1",
		SessionID: "session-1",
		UserAgent: "Mozilla/5.0",
		Referrer:  "https://example.com",
	}
	if err := s.InsertPageView(context.Background(), view); err != nil {
		t.Fatalf("InsertPageView: %v", err)
	}
}

func TestInsertPageViewValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	var validationErr *ValidationError
	if err := s.InsertPageView(context.Background(), PageView{}); !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(validationErr.Missing) != 2 {
		t.Errorf("missing = %v, want pagePath and visitorId", validationErr.Missing)
	}
}
