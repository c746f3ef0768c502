package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingSource struct {
	calls int
	songs []Song
	err   error
}

func (s *countingSource) Songs(context.Context) ([]Song, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.songs, nil
}

func TestCacheServesFreshEntryWithoutRefetch(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	source := &countingSource{songs: []Song{{ID: "1", Name: "Song"}}}
	cache := NewCache(source, time.Hour, clock)

	first, err := cache.Songs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(59 * time.Minute)
	second, err := cache.Songs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if source.calls != 1 {
		t.Fatalf("source called %d times, want 1", source.calls)
	}
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Fatalf("cached result differs: %v vs %v", first, second)
	}
}

func TestCacheRefetchesAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	source := &countingSource{songs: []Song{{ID: "1"}}}
	cache := NewCache(source, time.Hour, clock)

	if _, err := cache.Songs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(time.Hour)
	if _, err := cache.Songs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if source.calls != 2 {
		t.Fatalf("source called %d times, want 2", source.calls)
	}
}

func TestCachePropagatesFetchError(t *testing.T) {
	source := &countingSource{err: errors.New("upstream down")}
	cache := NewCache(source, time.Hour, nil)

	if _, err := cache.Songs(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}

	// A failed fetch must not poison the cache with an empty entry.
	source.err = nil
	source.songs = []Song{{ID: "1"}}
	songs, err := cache.Songs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("got %d songs, want 1", len(songs))
	}
}
