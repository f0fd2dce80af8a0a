package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/movierec/internal/api"
	"github.com/cloo-solutions/movierec/internal/domain"
)

type ArtworkService interface {
	Lookup(ctx context.Context, externalID string) (domain.ArtworkPaths, error)
}

type ArtworkHandler struct {
	svc ArtworkService
}

func NewArtworkHandler(svc ArtworkService) *ArtworkHandler {
	return &ArtworkHandler{svc: svc}
}

// Get answers GET /api/tmdb/movie/{id} with the bare {poster_path, backdrop_path} shape
func (h *ArtworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	paths, err := h.svc.Lookup(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, paths)
}
