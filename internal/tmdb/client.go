// Package tmdb is a rate-limited, circuit-broken client for the TMDB movie
// metadata API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/cloo-solutions/movierec/internal/domain"
	"github.com/cloo-solutions/movierec/internal/logging"
	"github.com/cloo-solutions/movierec/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultTimeout = 10 * time.Second
	breakerName    = "tmdb-api"
)

var (
	// ErrNotFound means TMDB has no movie with the requested id
	ErrNotFound = errors.New("tmdb: movie not found")

	// ErrMissingAPIKey means the client was built without credentials
	ErrMissingAPIKey = errors.New("tmdb: api key missing")
)

// StatusError is a non-2xx, non-404 answer from TMDB
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb: unexpected status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb: unexpected status %d", e.StatusCode)
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RPS        float64
	Burst      int
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[domain.ArtworkPaths]
}

type movieResponse struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

type statusResponse struct {
	StatusMessage string `json:"status_message"`
}

// NewClient creates a client. A non-positive RPS disables rate limiting.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    limiter,
		cb:         newBreaker(breakerName),
	}
}

// Configured reports whether the client has an API key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// MovieArtwork fetches the poster and backdrop paths of a movie
func (c *Client) MovieArtwork(ctx context.Context, id string) (domain.ArtworkPaths, error) {
	if !c.Configured() {
		return domain.ArtworkPaths{}, ErrMissingAPIKey
	}

	start := time.Now()
	paths, err := c.cb.Execute(func() (domain.ArtworkPaths, error) {
		return c.fetchMovie(ctx, id)
	})
	recordExecute(c.cb, err)

	switch {
	case err == nil:
		metrics.RecordUpstream("ok", time.Since(start))
	case errors.Is(err, ErrNotFound):
		metrics.RecordUpstream("not_found", time.Since(start))
	default:
		metrics.RecordUpstream("error", time.Since(start))
	}
	return paths, err
}

func (c *Client) fetchMovie(ctx context.Context, id string) (domain.ArtworkPaths, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.ArtworkPaths{}, fmt.Errorf("tmdb: rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	endpoint := c.baseURL + "/movie/" + url.PathEscape(id) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ArtworkPaths{}, fmt.Errorf("tmdb: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ArtworkPaths{}, fmt.Errorf("tmdb: request failed: %w", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ArtworkPaths{}, fmt.Errorf("tmdb: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.ArtworkPaths{}, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var sr statusResponse
		_ = json.Unmarshal(body, &sr)
		return domain.ArtworkPaths{}, &StatusError{StatusCode: resp.StatusCode, Message: sr.StatusMessage}
	}

	var movie movieResponse
	if err := json.Unmarshal(body, &movie); err != nil {
		return domain.ArtworkPaths{}, fmt.Errorf("tmdb: failed to parse response: %w", err)
	}

	logging.Debug().Str("tmdb_id", id).Bool("has_poster", movie.PosterPath != nil).Msg("tmdb movie fetched")
	return domain.ArtworkPaths{PosterPath: movie.PosterPath, BackdropPath: movie.BackdropPath}, nil
}

// redact strips the api key from transport errors, which embed the request URL
func redact(err error, apiKey string) error {
	if apiKey == "" || !strings.Contains(err.Error(), apiKey) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), apiKey, "REDACTED"))
}
