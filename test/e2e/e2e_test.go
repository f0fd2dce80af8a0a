//go:build e2e

package e2e

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/movierec/internal/artwork"
	"github.com/cloo-solutions/movierec/internal/catalog"
	"github.com/cloo-solutions/movierec/internal/loop"
	"github.com/cloo-solutions/movierec/internal/recommend"
	"github.com/cloo-solutions/movierec/internal/session"
)

func TestE2E_ProxyArtwork(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	client := catalog.NewClient(catalog.Config{ArtworkURL: env.ProxyURL})

	t.Run("found", func(t *testing.T) {
		paths, err := client.LookupArtwork(env.Ctx, "862")
		require.NoError(t, err)
		require.NotNil(t, paths.PosterPath)
		assert.Equal(t, "/toy.jpg", *paths.PosterPath)
	})

	t.Run("second lookup is served from redis", func(t *testing.T) {
		before := env.TMDBHits.Load()
		_, err := client.LookupArtwork(env.Ctx, "862")
		require.NoError(t, err)
		assert.Equal(t, before, env.TMDBHits.Load())
	})

	t.Run("unknown id answers the null shape", func(t *testing.T) {
		resp, err := http.Get(env.ProxyURL + "/api/tmdb/movie/999999")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"poster_path":null,"backdrop_path":null}`, string(body))
	})

	t.Run("upstream failure", func(t *testing.T) {
		resp, err := http.Get(env.ProxyURL + "/api/tmdb/movie/500")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Failed to fetch from TMDB"}`, string(body))
	})

	t.Run("health pings redis", func(t *testing.T) {
		resp, err := http.Get(env.ProxyURL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestE2E_SessionWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	ctx, cancel := context.WithTimeout(env.Ctx, 10*time.Second)
	defer cancel()

	l := loop.New()
	go l.Run(ctx)

	s := session.New(l, catalog.NewClient(catalog.Config{APIURL: env.Backend.URL, ArtworkURL: env.ProxyURL}), session.Options{
		Debounce: 20 * time.Millisecond,
	})

	s.SetQuery("toy")
	st, err := s.WaitFor(ctx, func(st session.State) bool { return len(st.Search.Results) > 0 })
	require.NoError(t, err)
	assert.Equal(t, "Toy Story (1995)", st.Search.Results[0].Title)

	s.ChooseResult(0)
	s.Recommend()

	st, err = s.WaitFor(ctx, session.State.RecommendationSettled)
	require.NoError(t, err)

	require.Equal(t, recommend.PhaseSucceeded, st.Recommendation.Phase)
	assert.Equal(t, []string{"1"}, st.Recommendation.IDs)
	assert.Empty(t, st.Search.Text)

	results := st.Recommendation.Results
	require.Len(t, results, 2)
	assert.Equal(t, artwork.Entry{Status: artwork.StatusAvailable, PosterURL: "https://image.tmdb.org/t/p/w500/toy2.jpg"}, st.ArtworkFor(results[0]))
	assert.Equal(t, artwork.StatusUnavailable, st.ArtworkFor(results[1]).Status)
}

func TestE2E_CLIWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.BuildBinaries()

	t.Run("movierec search", func(t *testing.T) {
		output, err := env.RunMovierec("search", "toy")
		require.NoError(t, err, "search failed: %s", output)
		assert.Contains(t, output, "Toy Story (1995)")
	})

	t.Run("movierec recommend", func(t *testing.T) {
		output, err := env.RunMovierec("recommend", "1")
		require.NoError(t, err, "recommend failed: %s", output)
		assert.Contains(t, output, "#1 Toy Story 2 (1999)  98% match")
		assert.Contains(t, output, "Poster: https://image.tmdb.org/t/p/w500/toy2.jpg")
		assert.Contains(t, output, "#2 A Bug's Life (1998)  96% match")
	})

	t.Run("movierec poster", func(t *testing.T) {
		output, err := env.RunMovierec("poster", "9487")
		require.NoError(t, err, "poster failed: %s", output)
		assert.Equal(t, "unavailable\n", output)
	})
}
