package deezer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.deezer.com"

// ErrArtistNotFound indicates an artist search returned no results.
var ErrArtistNotFound = errors.New("artist not found")

// StatusError reports a non-2xx response from the Deezer API.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("deezer api error: status %d", e.Status)
}

// Client talks to the public Deezer catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Deezer API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Artist is a Deezer artist record.
type Artist struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Album is a Deezer album summary as returned by the artist albums listing.
type Album struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	CoverMedium string `json:"cover_medium"`
	CoverBig    string `json:"cover_big"`
	CoverXL     string `json:"cover_xl"`
}

// CoverURL returns the largest available album art.
func (a Album) CoverURL() string {
	for _, u := range []string{a.CoverXL, a.CoverBig, a.CoverMedium, a.Cover} {
		if u != "" {
			return u
		}
	}
	return ""
}

// Track is a Deezer track record.
type Track struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Preview  string      `json:"preview"`
	Link     string      `json:"link"`
	Duration int         `json:"duration"` // seconds
	Artist   TrackArtist `json:"artist"`
	Album    *TrackAlbum `json:"album,omitempty"`
}

// TrackArtist is the primary credited artist on a track.
type TrackArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TrackAlbum is the album summary embedded in search results.
type TrackAlbum struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	CoverMedium string `json:"cover_medium"`
	CoverBig    string `json:"cover_big"`
	CoverXL     string `json:"cover_xl"`
}

// CoverURL returns the largest available album art.
func (a *TrackAlbum) CoverURL() string {
	if a == nil {
		return ""
	}
	for _, u := range []string{a.CoverXL, a.CoverBig, a.CoverMedium, a.Cover} {
		if u != "" {
			return u
		}
	}
	return ""
}

// AlbumDetail is the full album payload including its track listing.
type AlbumDetail struct {
	Tracks     []Track
	TrackCount int
}

type artistListResponse struct {
	Data []Artist `json:"data"`
}

type albumListResponse struct {
	Data []Album `json:"data"`
}

type trackListResponse struct {
	Data []Track `json:"data"`
}

type albumDetailResponse struct {
	Tracks struct {
		Data []Track `json:"data"`
	} `json:"tracks"`
	NbTracks int `json:"nb_tracks"`
}

// SearchArtist resolves an artist name to its catalog record, using the
// first search result. Returns ErrArtistNotFound when the search is empty.
func (c *Client) SearchArtist(ctx context.Context, name string) (Artist, error) {
	params := url.Values{}
	params.Set("q", name)

	var resp artistListResponse
	if err := c.get(ctx, "/search/artist", params, &resp); err != nil {
		return Artist{}, err
	}

	if len(resp.Data) == 0 {
		return Artist{}, fmt.Errorf("artist %q: %w", name, ErrArtistNotFound)
	}

	return resp.Data[0], nil
}

// ArtistAlbums lists an artist's albums.
func (c *Client) ArtistAlbums(ctx context.Context, artistID int64) ([]Album, error) {
	var resp albumListResponse
	if err := c.get(ctx, "/artist/"+strconv.FormatInt(artistID, 10)+"/albums", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AlbumTracks fetches an album's full track listing and declared track count.
func (c *Client) AlbumTracks(ctx context.Context, albumID int64) (AlbumDetail, error) {
	var resp albumDetailResponse
	if err := c.get(ctx, "/album/"+strconv.FormatInt(albumID, 10), nil, &resp); err != nil {
		return AlbumDetail{}, err
	}
	return AlbumDetail{
		Tracks:     resp.Tracks.Data,
		TrackCount: resp.NbTracks,
	}, nil
}

// SearchTracks runs a global track search capped at limit results.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var resp trackListResponse
	if err := c.get(ctx, "/search/track", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	apiURL := c.baseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
