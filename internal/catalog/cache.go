package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a fetched catalog stays fresh.
const DefaultTTL = time.Hour

// SongSource produces the full song list.
type SongSource interface {
	Songs(ctx context.Context) ([]Song, error)
}

// Cache wraps a SongSource with a single-slot, time-based cache. Two calls
// racing past the expiry check may both hit the source; that is acceptable
// because fetching is idempotent and side-effect free.
type Cache struct {
	source SongSource
	ttl    time.Duration
	clock  func() time.Time

	mu        sync.Mutex
	songs     []Song
	fetchedAt time.Time
}

// NewCache creates a Cache over source. A zero ttl falls back to DefaultTTL;
// a nil clock falls back to time.Now.
func NewCache(source SongSource, ttl time.Duration, clock func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		source: source,
		ttl:    ttl,
		clock:  clock,
	}
}

// Songs returns the cached list when it is younger than the TTL, otherwise
// refetches and stores the result. A failed refetch leaves any previous
// entry untouched.
func (c *Cache) Songs(ctx context.Context) ([]Song, error) {
	now := c.clock()

	c.mu.Lock()
	if c.songs != nil && now.Sub(c.fetchedAt) < c.ttl {
		songs := c.songs
		c.mu.Unlock()
		return songs, nil
	}
	c.mu.Unlock()

	songs, err := c.source.Songs(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.songs = songs
	c.fetchedAt = c.clock()
	c.mu.Unlock()

	return songs, nil
}
