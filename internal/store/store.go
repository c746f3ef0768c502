package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateVote signals the (song, user) pair already voted.
	ErrDuplicateVote = errors.New("vote already exists for this song and user")
	// ErrAdminExists signals the admin username is already taken.
	ErrAdminExists = errors.New("admin user already exists")
	// ErrAdminNotFound indicates no active admin matches the username.
	ErrAdminNotFound = errors.New("admin user not found")
)

// ValidationError reports required fields missing from a request.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
