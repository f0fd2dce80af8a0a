package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/movierec/internal/domain"
)

type MockArtworkService struct {
	mock.Mock
}

func (m *MockArtworkService) Lookup(ctx context.Context, externalID string) (domain.ArtworkPaths, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(domain.ArtworkPaths), args.Error(1)
}

func serve(h *ArtworkHandler, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/tmdb/movie/{id}", h.Get)
	r.Get("/api/tmdb/movie/", h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestArtworkHandler_Success(t *testing.T) {
	svc := new(MockArtworkService)
	svc.On("Lookup", mock.Anything, "862").Return(domain.NewArtworkPaths("/p.jpg", "/b.jpg"), nil)

	w := serve(NewArtworkHandler(svc), "/api/tmdb/movie/862")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"poster_path":"/p.jpg","backdrop_path":"/b.jpg"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestArtworkHandler_NotFoundIsNullShape(t *testing.T) {
	svc := new(MockArtworkService)
	svc.On("Lookup", mock.Anything, "999999999").Return(domain.ArtworkPaths{}, nil)

	w := serve(NewArtworkHandler(svc), "/api/tmdb/movie/999999999")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"poster_path":null,"backdrop_path":null}`, w.Body.String())
}

func TestArtworkHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"missing key", domain.ErrArtworkNotConfigured, http.StatusInternalServerError, `{"error":"TMDB API Key missing"}`},
		{"missing id", domain.ErrMissingMovieID, http.StatusBadRequest, `{"error":"Missing movie ID"}`},
		{"upstream failure", domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "Failed to fetch from TMDB", assert.AnError), http.StatusInternalServerError, `{"error":"Failed to fetch from TMDB"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockArtworkService)
			svc.On("Lookup", mock.Anything, mock.Anything).Return(domain.ArtworkPaths{}, tt.err)

			w := serve(NewArtworkHandler(svc), "/api/tmdb/movie/862")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestArtworkHandler_EmptyIDReachesService(t *testing.T) {
	svc := new(MockArtworkService)
	svc.On("Lookup", mock.Anything, "").Return(domain.ArtworkPaths{}, domain.ErrMissingMovieID)

	w := serve(NewArtworkHandler(svc), "/api/tmdb/movie/")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}
