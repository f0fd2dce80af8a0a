//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloo-solutions/movierec/internal/api/handlers"
	"github.com/cloo-solutions/movierec/internal/cache"
	"github.com/cloo-solutions/movierec/internal/server"
	"github.com/cloo-solutions/movierec/internal/service"
	"github.com/cloo-solutions/movierec/internal/testutil"
	"github.com/cloo-solutions/movierec/internal/tmdb"
)

const testAPIKey = "e2e-key"

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T           *testing.T
	Ctx         context.Context
	RedisC      *testutil.RedisContainer
	Cache       *cache.Redis
	TMDB        *httptest.Server
	TMDBHits    *atomic.Int32
	Backend     *httptest.Server
	ProxyURL    string
	ProxyCloser func()
	BinaryDir   string
}

// SetupE2EEnv starts Redis, a fake TMDB, a fake recommendation backend and
// the artwork proxy
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	redisC := testutil.NewRedisContainer(ctx, t)
	store, err := cache.NewRedis(ctx, redisC.URL())
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}

	hits := &atomic.Int32{}
	tmdbSrv := httptest.NewServer(fakeTMDB(hits))
	backend := httptest.NewServer(fakeBackend())

	upstream := tmdb.NewClient(tmdb.Config{BaseURL: tmdbSrv.URL, APIKey: testAPIKey, Timeout: 5 * time.Second})
	router := server.NewRouter(server.RouterConfig{
		ArtworkHandler: handlers.NewArtworkHandler(service.NewArtworkService(upstream, store, time.Hour)),
		Probe:          store.Ping,
	})
	proxy := httptest.NewServer(router)

	return &E2ETestEnv{
		T:           t,
		Ctx:         ctx,
		RedisC:      redisC,
		Cache:       store,
		TMDB:        tmdbSrv,
		TMDBHits:    hits,
		Backend:     backend,
		ProxyURL:    proxy.URL,
		ProxyCloser: proxy.Close,
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ProxyCloser != nil {
		e.ProxyCloser()
	}
	e.Backend.Close()
	e.TMDB.Close()
	if e.Cache != nil {
		e.Cache.Close()
	}
	if e.RedisC != nil {
		e.RedisC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the movierec CLI
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "movierec-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "movierec"), "./cmd/movierec")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build movierec: %v\n%s", err, out)
	}
}

// RunMovierec runs the movierec CLI against the fake backend and the proxy
func (e *E2ETestEnv) RunMovierec(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "movierec"), args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("MOVIEREC_API_URL=%s", e.Backend.URL),
		fmt.Sprintf("MOVIEREC_ARTWORK_URL=%s", e.ProxyURL),
		"MOVIEREC_LOG_LEVEL=error",
	)
	out, err := cmd.Output()
	return string(out), err
}

func fakeTMDB(hits *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("api_key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"status_message":"Invalid API key"}`)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch strings.TrimPrefix(r.URL.Path, "/movie/") {
		case "862":
			_, _ = io.WriteString(w, `{"id":862,"title":"Toy Story","poster_path":"/toy.jpg","backdrop_path":"/toy-bg.jpg"}`)
		case "863":
			_, _ = io.WriteString(w, `{"id":863,"title":"Toy Story 2","poster_path":"/toy2.jpg","backdrop_path":null}`)
		case "500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"status_message":"The resource you requested could not be found."}`)
		}
	})
}

func fakeBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(strings.ToLower(r.URL.Query().Get("search")), "toy") {
			_, _ = io.WriteString(w, `[{"id":"1","title":"Toy Story (1995)","genres":"Animation|Children's|Comedy","tmdbId":"862"}]`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})
	mux.HandleFunc("/recommend", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"3114","title":"Toy Story 2 (1999)","genres":"Animation|Children's|Comedy","tmdbId":"863"},
			{"id":"2355","title":"A Bug's Life (1998)","genres":"Animation|Children's|Comedy","tmdbId":"9487"}
		]`)
	})
	return mux
}
