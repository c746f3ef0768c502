package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestCreateVoteSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO votes (id, song_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`)).
		WithArgs(sqlmock.AnyArg(), "s1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	vote, err := s.CreateVote(context.Background(), "s1", "u1")
	if err != nil {
		t.Fatalf("CreateVote: %v", err)
	}
	if vote.SongID != "s1" || vote.UserID != "u1" {
		t.Errorf("vote = %+v", vote)
	}
	if vote.ID == "" {
		t.Error("vote id should be generated")
	}
	if !vote.CreatedAt.Equal(created) {
		t.Errorf("created at = %v, want %v", vote.CreatedAt, created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateVoteDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO votes`)).
		WithArgs(sqlmock.AnyArg(), "s1", "u1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := s.CreateVote(context.Background(), "s1", "u1"); !errors.Is(err, ErrDuplicateVote) {
		t.Fatalf("error = %v, want ErrDuplicateVote", err)
	}
}

func TestCreateVoteValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	tests := []struct {
		name        string
		songID      string
		userID      string
		wantMissing []string
	}{
		{name: "missing song", songID: "", userID: "u1", wantMissing: []string{"songId"}},
		{name: "missing user", songID: "s1", userID: "", wantMissing: []string{"userId"}},
		{name: "missing both", songID: "", userID: "", wantMissing: []string{"songId", "userId"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateVote(context.Background(), tc.songID, tc.userID)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if len(validationErr.Missing) != len(tc.wantMissing) {
				t.Fatalf("missing = %v, want %v", validationErr.Missing, tc.wantMissing)
			}
			for i := range tc.wantMissing {
				if validationErr.Missing[i] != tc.wantMissing[i] {
					t.Fatalf("missing = %v, want %v", validationErr.Missing, tc.wantMissing)
				}
			}
		})
	}
}

func TestDeleteVoteIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	// Zero rows affected is still success.
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM votes
		WHERE song_id = $1 AND user_id = $2
	`)).
		WithArgs("s1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteVote(context.Background(), "s1", "u1"); err != nil {
		t.Fatalf("DeleteVote: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestVoteSongIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT song_id
		FROM votes
	`)).
		WillReturnRows(sqlmock.NewRows([]string{"song_id"}).
			AddRow("s1").
			AddRow("s1").
			AddRow("s2"))

	songIDs, err := s.VoteSongIDs(context.Background())
	if err != nil {
		t.Fatalf("VoteSongIDs: %v", err)
	}
	if len(songIDs) != 3 {
		t.Fatalf("got %d song ids, want 3", len(songIDs))
	}
}

func TestAllVotes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	newer := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, song_id, user_id, created_at
		FROM votes
		ORDER BY created_at DESC
	`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "song_id", "user_id", "created_at"}).
			AddRow("v1", "s1", "u1", newer).
			AddRow("v2", "s2", "u2", older))

	votes, err := s.AllVotes(context.Background())
	if err != nil {
		t.Fatalf("AllVotes: %v", err)
	}
	if len(votes) != 2 || votes[0].ID != "v1" {
		t.Fatalf("votes = %+v", votes)
	}
}

func TestVotesByUserRequiresID(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	var validationErr *ValidationError
	if _, err := s.VotesByUser(context.Background(), ""); !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}
