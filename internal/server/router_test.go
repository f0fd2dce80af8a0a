package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/movierec/internal/api/handlers"
	"github.com/cloo-solutions/movierec/internal/api/middleware"
	"github.com/cloo-solutions/movierec/internal/domain"
)

type MockArtworkService struct {
	mock.Mock
}

func (m *MockArtworkService) Lookup(ctx context.Context, externalID string) (domain.ArtworkPaths, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(domain.ArtworkPaths), args.Error(1)
}

func strPtr(s string) *string { return &s }

func newTestRouter(svc *MockArtworkService, mutate func(*RouterConfig)) http.Handler {
	cfg := RouterConfig{
		ArtworkHandler: handlers.NewArtworkHandler(svc),
		CORSOrigins:    []string{"http://localhost:5173"},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRouter(cfg)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(new(MockArtworkService), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_HealthProbeFailure(t *testing.T) {
	router := newTestRouter(new(MockArtworkService), func(cfg *RouterConfig) {
		cfg.Probe = func(context.Context) error { return errors.New("redis down") }
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(new(MockArtworkService), nil)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "movierecd_http_requests_total"))
}

func TestRouter_ArtworkLookup(t *testing.T) {
	svc := new(MockArtworkService)
	svc.On("Lookup", mock.Anything, "603").Return(domain.ArtworkPaths{
		PosterPath:   strPtr("/matrix.jpg"),
		BackdropPath: strPtr("/matrix-bg.jpg"),
	}, nil)
	router := newTestRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tmdb/movie/603", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"poster_path":"/matrix.jpg","backdrop_path":"/matrix-bg.jpg"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestRouter_ArtworkMissingID(t *testing.T) {
	svc := new(MockArtworkService)
	svc.On("Lookup", mock.Anything, "").Return(domain.ArtworkPaths{}, domain.ErrMissingMovieID)
	router := newTestRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tmdb/movie/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(new(MockArtworkService), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/tmdb/movie/603", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	svc := new(MockArtworkService)
	svc.On("Lookup", mock.Anything, "603").Return(domain.ArtworkPaths{}, nil)
	router := newTestRouter(svc, func(cfg *RouterConfig) {
		cfg.RateLimitPerMinute = 2
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/tmdb/movie/603", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRouter_HealthNotRateLimited(t *testing.T) {
	router := newTestRouter(new(MockArtworkService), func(cfg *RouterConfig) {
		cfg.RateLimitPerMinute = 1
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.2:5555"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
