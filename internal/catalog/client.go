// Package catalog is the HTTP client for the recommendation backend and the
// artwork proxy. It keeps no state and never retries.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/cloo-solutions/movierec/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20

	ArtworkPathPrefix = "/api/tmdb/movie/"
)

// Config configures a Client
type Config struct {
	APIURL     string
	ArtworkURL string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	apiURL     string
	artworkURL string
	httpClient *http.Client
}

// NewClient creates a Client. A zero Timeout becomes 10s; the timeout turns a
// hung call into ErrRequestFailed.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		artworkURL: strings.TrimSuffix(cfg.ArtworkURL, "/"),
		httpClient: httpClient,
	}
}

// MovieResponse is the wire form of a movie
type MovieResponse struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Genres string  `json:"genres"`
	TMDBID *string `json:"tmdbId,omitempty"`
}

// RecommendationRequest is the body of POST /recommend
type RecommendationRequest struct {
	SelectedMovieIDs []string `json:"selected_movie_ids"`
	K                int      `json:"k"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// SearchMovies returns movies whose title matches text. Callers must not pass
// empty text; use ListMovies for the unfiltered listing.
func (c *Client) SearchMovies(ctx context.Context, text string) ([]domain.Movie, error) {
	q := url.Values{}
	q.Set("search", text)
	return c.getMovies(ctx, "search", c.apiURL+"/movies?"+q.Encode())
}

// ListMovies returns the backend's default catalog listing
func (c *Client) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return c.getMovies(ctx, "list", c.apiURL+"/movies")
}

// Recommend returns at most k movies ranked for the selected ids, best first
func (c *Client) Recommend(ctx context.Context, ids []string, k int) ([]domain.Movie, error) {
	const op = "recommend"
	if len(ids) == 0 {
		return nil, &RequestError{Op: op, Message: "selected_movie_ids must not be empty"}
	}
	if k <= 0 {
		return nil, &RequestError{Op: op, Message: fmt.Sprintf("k must be positive, got %d", k)}
	}

	body, err := json.Marshal(RecommendationRequest{SelectedMovieIDs: ids, K: k})
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	var resp []MovieResponse
	if _, err := c.do(ctx, op, http.MethodPost, c.apiURL+"/recommend", body, &resp); err != nil {
		return nil, err
	}

	movies := toMovies(resp)
	if len(movies) > k {
		movies = movies[:k]
	}
	return movies, nil
}

// LookupArtwork fetches poster and backdrop paths for a TMDB id. A 404 from
// the proxy is a valid empty result, not an error.
func (c *Client) LookupArtwork(ctx context.Context, externalID string) (domain.ArtworkPaths, error) {
	const op = "lookup artwork"
	if externalID == "" {
		return domain.ArtworkPaths{}, &RequestError{Op: op, Message: "external id is required"}
	}

	var paths domain.ArtworkPaths
	status, err := c.do(ctx, op, http.MethodGet, c.artworkURL+ArtworkPathPrefix+url.PathEscape(externalID), nil, &paths)
	if status == http.StatusNotFound {
		return domain.ArtworkPaths{}, nil
	}
	if err != nil {
		return domain.ArtworkPaths{}, err
	}
	return paths, nil
}

func (c *Client) getMovies(ctx context.Context, op, rawURL string) ([]domain.Movie, error) {
	var resp []MovieResponse
	if _, err := c.do(ctx, op, http.MethodGet, rawURL, nil, &resp); err != nil {
		return nil, err
	}
	return toMovies(resp), nil
}

// do performs the request and decodes a 2xx JSON body into out. It returns the
// response status (0 if none) alongside any error.
func (c *Client) do(ctx context.Context, op, method, rawURL string, body []byte, out interface{}) (int, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return 0, &RequestError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &RequestError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, &RequestError{Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return resp.StatusCode, nil
}

func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Detail != "" {
			return e.Detail
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func toMovies(resp []MovieResponse) []domain.Movie {
	movies := make([]domain.Movie, 0, len(resp))
	for _, r := range resp {
		externalID := ""
		if r.TMDBID != nil {
			externalID = *r.TMDBID
		}
		movies = append(movies, domain.NewMovie(r.ID, r.Title, r.Genres, externalID))
	}
	return domain.UniqueByID(movies)
}
