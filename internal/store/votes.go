package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Vote is one recorded vote. The (SongID, UserID) pair is unique, enforced
// by the votes table constraint.
type Vote struct {
	ID        string    `json:"id"`
	SongID    string    `json:"song_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteSongIDs returns the song id of every vote, for counting.
func (s *Store) VoteSongIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id
		FROM votes
	`)
	if err != nil {
		return nil, fmt.Errorf("select votes: %w", err)
	}
	defer rows.Close()

	var songIDs []string
	for rows.Next() {
		var songID string
		if err := rows.Scan(&songID); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		songIDs = append(songIDs, songID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}

	return songIDs, nil
}

// VotesByUser returns the song ids a user has voted for.
func (s *Store) VotesByUser(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, &ValidationError{Missing: []string{"userId"}}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id
		FROM votes
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select user votes: %w", err)
	}
	defer rows.Close()

	var songIDs []string
	for rows.Next() {
		var songID string
		if err := rows.Scan(&songID); err != nil {
			return nil, fmt.Errorf("scan user vote: %w", err)
		}
		songIDs = append(songIDs, songID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user votes: %w", err)
	}

	return songIDs, nil
}

// AllVotes returns every vote, newest first.
func (s *Store) AllVotes(ctx context.Context) ([]Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, song_id, user_id, created_at
		FROM votes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select all votes: %w", err)
	}
	defer rows.Close()

	var votes []Vote
	for rows.Next() {
		var v Vote
		if err := rows.Scan(&v.ID, &v.SongID, &v.UserID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote row: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vote rows: %w", err)
	}

	return votes, nil
}

// CreateVote records one vote. Uniqueness is not pre-checked; the table
// constraint arbitrates concurrent writers and surfaces ErrDuplicateVote.
func (s *Store) CreateVote(ctx context.Context, songID, userID string) (Vote, error) {
	if err := requireVoteIDs(songID, userID); err != nil {
		return Vote{}, err
	}

	vote := Vote{
		ID:     uuid.New().String(),
		SongID: songID,
		UserID: userID,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO votes (id, song_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, vote.ID, songID, userID).Scan(&vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Vote{}, ErrDuplicateVote
		}
		return Vote{}, fmt.Errorf("insert vote: %w", err)
	}

	return vote, nil
}

// DeleteVote removes the vote for the (song, user) pair. Deleting a vote
// that does not exist is not an error.
func (s *Store) DeleteVote(ctx context.Context, songID, userID string) error {
	if err := requireVoteIDs(songID, userID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM votes
		WHERE song_id = $1 AND user_id = $2
	`, songID, userID); err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}

	return nil
}

func requireVoteIDs(songID, userID string) error {
	var missing []string
	if songID == "" {
		missing = append(missing, "songId")
	}
	if userID == "" {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
