package catalog

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"setlist/internal/deezer"
)

const (
	// minAlbumTracks excludes singles and EPs: only albums with strictly
	// more tracks than this contribute to the votable catalog.
	minAlbumTracks = 10

	// featuringAlbumName groups guest appearances under one synthetic album.
	featuringAlbumName = "Featurings"

	// guestSearchLimit caps the global track search for guest appearances.
	guestSearchLimit = 500

	defaultAlbumWorkers = 4
)

// Client is the slice of the Deezer API the fetcher needs.
type Client interface {
	SearchArtist(ctx context.Context, name string) (deezer.Artist, error)
	ArtistAlbums(ctx context.Context, artistID int64) ([]deezer.Album, error)
	AlbumTracks(ctx context.Context, albumID int64) (deezer.AlbumDetail, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]deezer.Track, error)
}

// Fetcher aggregates an artist's votable songs: full album tracks plus
// guest appearances found through the global track search.
type Fetcher struct {
	client        Client
	artistName    string
	fallbackImage string
	workers       int
	logger        zerolog.Logger
}

// NewFetcher creates a Fetcher for the given artist. fallbackImage is used
// for guest tracks whose search result carries no album art.
func NewFetcher(client Client, artistName, fallbackImage string, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:        client,
		artistName:    artistName,
		fallbackImage: fallbackImage,
		workers:       defaultAlbumWorkers,
		logger:        logger,
	}
}

// Songs returns the complete votable song list. Only artist resolution is
// fatal; a failed album fetch or guest search degrades to an empty slice
// for that part.
func (f *Fetcher) Songs(ctx context.Context) ([]Song, error) {
	start := time.Now()

	artist, err := f.client.SearchArtist(ctx, f.artistName)
	if err != nil {
		return nil, err
	}

	albums, err := f.client.ArtistAlbums(ctx, artist.ID)
	if err != nil {
		return nil, err
	}

	owned := f.albumSongs(ctx, albums)
	guests := f.guestSongs(ctx, owned)

	combined := append(owned, guests...)

	f.logger.Info().
		Str("artist", artist.Name).
		Int("albums", len(albums)).
		Int("album_songs", len(owned)).
		Int("guest_songs", len(guests)).
		Dur("elapsed", time.Since(start)).
		Msg("catalog assembled")

	return combined, nil
}

// albumSongs fetches every album's track listing through a bounded worker
// pool and keeps only albums with more than minAlbumTracks tracks. Result
// order follows the album listing order.
func (f *Fetcher) albumSongs(ctx context.Context, albums []deezer.Album) []Song {
	perAlbum := make([][]Song, len(albums))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := f.workers
	if workers > len(albums) {
		workers = len(albums)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perAlbum[i] = f.fetchAlbum(ctx, albums[i])
			}
		}()
	}

	for i := range albums {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	seen := make(map[string]struct{})
	var songs []Song
	for _, batch := range perAlbum {
		for _, song := range batch {
			if _, ok := seen[song.ID]; ok {
				continue
			}
			seen[song.ID] = struct{}{}
			songs = append(songs, song)
		}
	}
	return songs
}

func (f *Fetcher) fetchAlbum(ctx context.Context, album deezer.Album) []Song {
	detail, err := f.client.AlbumTracks(ctx, album.ID)
	if err != nil {
		f.logger.Warn().Err(err).Str("album", album.Title).Msg("album tracks fetch failed, skipping")
		return nil
	}

	if detail.TrackCount <= minAlbumTracks {
		return nil
	}

	songs := make([]Song, 0, len(detail.Tracks))
	for _, track := range detail.Tracks {
		songs = append(songs, Song{
			ID:         strconv.FormatInt(track.ID, 10),
			Name:       track.Title,
			AlbumName:  album.Title,
			AlbumImage: album.CoverURL(),
			PreviewURL: track.Preview,
			CatalogURL: track.Link,
			DurationMS: track.Duration * 1000,
		})
	}
	return songs
}

// guestSongs searches the global track catalog for featuring appearances:
// tracks not already owned, not primarily credited to the artist, and whose
// title carries a featuring marker.
func (f *Fetcher) guestSongs(ctx context.Context, owned []Song) []Song {
	results, err := f.client.SearchTracks(ctx, f.artistName, guestSearchLimit)
	if err != nil {
		f.logger.Warn().Err(err).Msg("guest track search failed, skipping")
		return nil
	}

	ownedIDs := make(map[string]struct{}, len(owned))
	for _, song := range owned {
		ownedIDs[song.ID] = struct{}{}
	}

	artistLower := strings.ToLower(f.artistName)

	var songs []Song
	for _, track := range results {
		id := strconv.FormatInt(track.ID, 10)
		if _, ok := ownedIDs[id]; ok {
			continue
		}
		if strings.Contains(strings.ToLower(track.Artist.Name), artistLower) {
			continue
		}
		if !hasFeaturingMarker(track.Title) {
			continue
		}

		image := track.Album.CoverURL()
		if image == "" {
			image = f.fallbackImage
		}

		songs = append(songs, Song{
			ID:         id,
			Name:       track.Title,
			AlbumName:  featuringAlbumName,
			AlbumImage: image,
			PreviewURL: track.Preview,
			CatalogURL: track.Link,
			DurationMS: track.Duration * 1000,
		})
	}
	return songs
}

func hasFeaturingMarker(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "feat") ||
		strings.Contains(lower, "featuring") ||
		strings.Contains(lower, "ft.")
}
