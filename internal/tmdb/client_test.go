package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popcorn-picks/backend/internal/apperr"
	"github.com/popcorn-picks/backend/internal/config"
	"github.com/popcorn-picks/backend/internal/tmdb"
)

func newTestClient(baseURL string, cache *memCache) *tmdb.Client {
	cfg := &config.Config{
		TMDBAPIKey:    "test-key",
		TMDBBaseURL:   baseURL,
		TMDBImageBase: "https://image.tmdb.org/t/p",
		TMDBRegion:    "US",
		TMDBTimeout:   2 * time.Second,
	}
	if cache != nil {
		return tmdb.NewClient(cfg, cache)
	}
	return tmdb.NewClient(cfg, nil)
}

// memCache is an in-memory stand-in for the redis string cache.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) GetString(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func TestSearchMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("query"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"page":1,"results":[{"id":438631,"title":"Dune","popularity":80.5,"genre_ids":[878,12]}]}`))
	}))
	defer srv.Close()

	movies, err := newTestClient(srv.URL, nil).SearchMovies(context.Background(), "dune", 1)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, int64(438631), movies[0].ID)
	assert.Equal(t, []int64{878, 12}, movies[0].GenreIDs)
}

func TestMoviesByGenre(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "878", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		assert.Equal(t, "1", r.URL.Query().Get("page"), "page below 1 normalizes to 1")
		w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"A"}]}`))
	}))
	defer srv.Close()

	movies, err := newTestClient(srv.URL, nil).MoviesByGenre(context.Background(), 878, 0)
	require.NoError(t, err)
	assert.Len(t, movies, 1)
}

func TestMovieDetailsFlatten(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/157336", r.URL.Path)
		w.Write([]byte(`{"id":157336,"title":"Interstellar","runtime":169,"genres":[{"id":878,"name":"Science Fiction"}]}`))
	}))
	defer srv.Close()

	detail, err := newTestClient(srv.URL, nil).MovieDetails(context.Background(), 157336)
	require.NoError(t, err)
	assert.Equal(t, 169, detail.Runtime)

	flat := detail.Movie()
	assert.Equal(t, []int64{878}, flat.GenreIDs)
}

func TestGenresCached(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"genres":[{"id":35,"name":"Comedy"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, newMemCache())

	for i := 0; i < 3; i++ {
		genres, err := client.Genres(context.Background())
		require.NoError(t, err)
		require.Len(t, genres, 1)
		assert.Equal(t, "Comedy", genres[0].Name)
	}
	assert.Equal(t, 1, hits, "later calls must come from the cache")
}

func TestWatchProvidersRegional(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603/watch/providers", r.URL.Path)
		w.Write([]byte(`{"results":{"US":{"flatrate":[{"provider_id":8,"provider_name":"Netflix"}]},"DE":{"flatrate":[{"provider_id":9,"provider_name":"Other"}]}}}`))
	}))
	defer srv.Close()

	providers, err := newTestClient(srv.URL, nil).WatchProviders(context.Background(), 603)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "Netflix", providers[0].ProviderName)
}

func TestUpstreamErrorsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, nil).SearchMovies(context.Background(), "x", 1)
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
}

func TestMalformedUpstreamWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, nil).SearchMovies(context.Background(), "x", 1)
	assert.ErrorIs(t, err, apperr.ErrMalformedUpstream)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, nil)
	for i := 0; i < 5; i++ {
		_, err := client.SearchMovies(context.Background(), "x", 1)
		require.Error(t, err)
	}

	// circuit is now open: the request fails without reaching the server
	srv.Close()
	_, err := client.SearchMovies(context.Background(), "x", 1)
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
}

func TestImageURL(t *testing.T) {
	client := newTestClient("http://unused", nil)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", client.ImageURL("/poster.jpg", "w500"))
	assert.Empty(t, client.ImageURL("", "w500"))
}
