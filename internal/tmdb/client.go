// Package tmdb is the movie catalog client. All calls go through a circuit
// breaker so a struggling upstream fails fast instead of tying up requests.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/popcorn-picks/backend/internal/apperr"
	"github.com/popcorn-picks/backend/internal/config"
	"github.com/sony/gobreaker/v2"
)

const genreCacheKey = "tmdb:genres"

// stringCache is the optional cache for slow-changing lookups (genre list).
// Satisfied by *cache.RedisCache; nil disables caching.
type stringCache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
}

type Client struct {
	baseURL   string
	imageBase string
	apiKey    string
	region    string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[[]byte]
	cache     stringCache
}

func NewClient(cfg *config.Config, cache stringCache) *Client {
	return &Client{
		baseURL:   cfg.TMDBBaseURL,
		imageBase: cfg.TMDBImageBase,
		apiKey:    cfg.TMDBAPIKey,
		region:    cfg.TMDBRegion,
		http:      &http.Client{Timeout: cfg.TMDBTimeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "tmdb",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		cache: cache,
	}
}

// SearchMovies searches the catalog by free-text query.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) ([]Movie, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(normPage(page)))

	var out pagedMovies
	if err := c.get(ctx, "/search/movie", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// MoviesByGenre returns a page of movies for a genre, most popular first.
func (c *Client) MoviesByGenre(ctx context.Context, genreID int64, page int) ([]Movie, error) {
	q := url.Values{}
	q.Set("with_genres", strconv.FormatInt(genreID, 10))
	q.Set("sort_by", "popularity.desc")
	q.Set("page", strconv.Itoa(normPage(page)))

	var out pagedMovies
	if err := c.get(ctx, "/discover/movie", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetail, error) {
	var out MovieDetail
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Genres returns the genre catalog, cached for a day when a cache is wired.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	if c.cache != nil {
		if cached, err := c.cache.GetString(ctx, genreCacheKey); err == nil && cached != "" {
			var genres []Genre
			if err := json.Unmarshal([]byte(cached), &genres); err == nil {
				return genres, nil
			}
		}
	}

	var out genreList
	if err := c.get(ctx, "/genre/movie/list", nil, &out); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if b, err := json.Marshal(out.Genres); err == nil {
			_ = c.cache.SetString(ctx, genreCacheKey, string(b), 24*time.Hour)
		}
	}
	return out.Genres, nil
}

// WatchProvidersList returns every streaming provider known to the catalog.
func (c *Client) WatchProvidersList(ctx context.Context) ([]Provider, error) {
	q := url.Values{}
	q.Set("watch_region", c.region)

	var out providerList
	if err := c.get(ctx, "/watch/providers/movie", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// WatchProviders returns the flatrate providers for a movie in the
// configured region.
func (c *Client) WatchProviders(ctx context.Context, movieID int64) ([]Provider, error) {
	var out movieProviders
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID), nil, &out); err != nil {
		return nil, err
	}
	regional, ok := out.Results[c.region]
	if !ok {
		return nil, nil
	}
	return regional.Flatrate, nil
}

// ImageURL builds a full poster/backdrop URL from a path fragment and a size
// token such as "w500". Empty path yields an empty URL.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return c.imageBase + "/" + size + path
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v interface{}) error {
	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamUnavailable, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamUnavailable, err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: catalog returned status %d", apperr.ErrUpstreamUnavailable, resp.StatusCode)
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: catalog circuit open", apperr.ErrUpstreamUnavailable)
		}
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrMalformedUpstream, err)
	}
	return nil
}

func normPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
