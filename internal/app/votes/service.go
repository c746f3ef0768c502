package votes

import (
	"context"
	"time"

	"setlist/internal/analytics"
	"setlist/internal/store"
)

// Store describes the persistence operations required by the vote service.
type Store interface {
	VoteSongIDs(ctx context.Context) ([]string, error)
	VotesByUser(ctx context.Context, userID string) ([]string, error)
	AllVotes(ctx context.Context) ([]store.Vote, error)
	CreateVote(ctx context.Context, songID, userID string) (store.Vote, error)
	DeleteVote(ctx context.Context, songID, userID string) error
}

// Service exposes voting workflows.
type Service interface {
	Counts(ctx context.Context) (map[string]int, error)
	UserVotes(ctx context.Context, userID string) ([]string, error)
	Cast(ctx context.Context, songID, userID string) (store.Vote, error)
	Remove(ctx context.Context, songID, userID string) error
	Analytics(ctx context.Context) (analytics.Report, error)
}

type service struct {
	store Store
	clock func() time.Time
}

// New wires a Service backed by the provided Store.
func New(s Store) Service {
	return &service{store: s, clock: time.Now}
}

// NewWithClock is New with an injected clock, for tests.
func NewWithClock(s Store, clock func() time.Time) Service {
	return &service{store: s, clock: clock}
}

// Counts folds the vote list into a per-song tally.
func (s *service) Counts(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	songIDs, err := s.store.VoteSongIDs(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(songIDs))
	for _, songID := range songIDs {
		counts[songID]++
	}
	return counts, nil
}

func (s *service) UserVotes(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.VotesByUser(ctx, userID)
}

func (s *service) Cast(ctx context.Context, songID, userID string) (store.Vote, error) {
	if err := ctx.Err(); err != nil {
		return store.Vote{}, err
	}
	return s.store.CreateVote(ctx, songID, userID)
}

func (s *service) Remove(ctx context.Context, songID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteVote(ctx, songID, userID)
}

// Analytics derives the admin dashboard report from the full vote list.
func (s *service) Analytics(ctx context.Context) (analytics.Report, error) {
	if err := ctx.Err(); err != nil {
		return analytics.Report{}, err
	}

	rows, err := s.store.AllVotes(ctx)
	if err != nil {
		return analytics.Report{}, err
	}

	votes := make([]analytics.Vote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, analytics.Vote{
			SongID:    row.SongID,
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt,
		})
	}

	return analytics.Compute(votes, s.clock()), nil
}
