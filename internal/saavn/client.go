package saavn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"saavnbot/internal/http"
	"saavnbot/internal/model"
	"saavnbot/internal/saavn/dto"
)

// ErrNotFound reports that the catalog has no record for the requested
// song identifier.
var ErrNotFound = errors.New("song not found")

// Client issues requests against a JioSaavn-style catalog API.
//
// Client normalizes the API's inconsistent response shapes into model
// values. Transport failures surface as errors wrapping http.ErrTransport;
// an empty search result is not an error.
//
// Example usage:
//
//	catalog := saavn.NewClient(baseURL)
//
//	songs, err := catalog.SearchSongs(ctx, "kesariya", 1, 10)
//	if err != nil { /* request failed */ }
//	if len(songs) == 0 { /* valid empty outcome */ }
//
//	detail, err := catalog.GetSong(ctx, songs[0].ID)
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client for the given API base URL,
// e.g. "https://example.workers.dev/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: http.NewClient(),
	}
}

// SearchSongs queries the catalog for songs matching query.
//
// Returns an empty slice with a nil error when nothing matched; callers
// must not conflate that with a failed request, which returns a non-nil
// error wrapping http.ErrTransport.
func (c *Client) SearchSongs(ctx context.Context, query string, page, limit int) ([]model.SongSummary, error) {
	endpoint := fmt.Sprintf("%s/search/songs?query=%s&page=%d&limit=%d",
		c.baseURL, url.QueryEscape(query), page, limit)

	var raw json.RawMessage
	if err := c.httpClient.GetJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}

	return dto.SearchResults(raw), nil
}

// GetSong fetches the full catalog record for a song identifier.
//
// Returns ErrNotFound when the catalog answers successfully but carries no
// record for the identifier.
func (c *Client) GetSong(ctx context.Context, songID string) (*model.SongDetail, error) {
	endpoint := fmt.Sprintf("%s/song?id=%s", c.baseURL, url.QueryEscape(songID))

	var raw json.RawMessage
	if err := c.httpClient.GetJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("get song %s: %w", songID, err)
	}

	detail := dto.SongDetail(raw)
	if detail == nil {
		return nil, fmt.Errorf("get song %s: %w", songID, ErrNotFound)
	}
	return detail, nil
}

// DownloadFile streams a catalog download URL to destPath, returning the
// byte count written (diagnostics only).
func (c *Client) DownloadFile(ctx context.Context, fileURL, destPath string, onProgress func(written, total int64)) (int64, error) {
	return c.httpClient.DownloadFile(ctx, fileURL, destPath, onProgress)
}
