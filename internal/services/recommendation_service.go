package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/popcorn-picks/backend/internal/tmdb"
)

// pageSize bounds every recommendation response.
const pageSize = 30

// Catalog is the slice of the movie catalog the recommender needs.
// Satisfied by *tmdb.Client.
type Catalog interface {
	MoviesByGenre(ctx context.Context, genreID int64, page int) ([]tmdb.Movie, error)
	MovieDetails(ctx context.Context, id int64) (*tmdb.MovieDetail, error)
}

// RecommendationService turns preference sets into ranked movie lists.
// Catalog failures never surface to the caller: a failing genre query
// contributes zero candidates and a total failure yields an empty list.
type RecommendationService struct {
	catalog Catalog
}

func NewRecommendationService(catalog Catalog) *RecommendationService {
	return &RecommendationService{catalog: catalog}
}

// moodGenres maps a qualitative mood label to catalog genre ids.
var moodGenres = map[string][]int64{
	"romantic":    {10749, 35},
	"adventurous": {12, 28, 878},
	"cozy":        {10751, 16, 35},
	"scary":       {27, 9648, 53},
	"thoughtful":  {18, 36},
	"funny":       {35, 10402},
}

// occasionGenres maps a viewing occasion to catalog genre ids.
var occasionGenres = map[string][]int64{
	"date_night":   {10749, 53},
	"family_night": {10751, 16, 14},
	"friends":      {35, 28, 80},
	"solo":         {18, 878, 99},
}

// Solo builds recommendations for one user.
//
// When likedMovieIDs is non-empty the result is restricted to exactly those
// ids: explicit likes override genre discovery entirely instead of blending
// with it. Otherwise candidates come from the union of the user's liked
// genres and the mood/occasion mapping.
func (s *RecommendationService) Solo(ctx context.Context, likedGenreIDs, likedMovieIDs, dislikedMovieIDs []int64, mood, occasion string) []tmdb.Movie {
	if len(likedMovieIDs) > 0 {
		return s.fromExplicitLikes(ctx, likedMovieIDs, dislikedMovieIDs)
	}

	genres := unionGenres(likedGenreIDs, moodGenres[mood], occasionGenres[occasion])
	return s.fromGenres(ctx, genres, dislikedMovieIDs)
}

// Couple builds recommendations for a couple from the union of both
// partners' genre sets. Movies either partner already shares (matches, joint
// watchlist) are excluded as already seen.
func (s *RecommendationService) Couple(ctx context.Context, combinedGenreIDs, sharedMovieIDs []int64) []tmdb.Movie {
	return s.fromGenres(ctx, unionGenres(combinedGenreIDs), sharedMovieIDs)
}

func (s *RecommendationService) fromExplicitLikes(ctx context.Context, likedMovieIDs, dislikedMovieIDs []int64) []tmdb.Movie {
	excluded := idSet(dislikedMovieIDs)
	seen := make(map[int64]struct{})
	var movies []tmdb.Movie

	for _, id := range likedMovieIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		if _, bad := excluded[id]; bad {
			continue
		}
		detail, err := s.catalog.MovieDetails(ctx, id)
		if err != nil {
			slog.Warn("skipping liked movie, catalog lookup failed", "movie_id", id, "error", err)
			continue
		}
		seen[id] = struct{}{}
		movies = append(movies, detail.Movie())
	}

	return rank(movies)
}

func (s *RecommendationService) fromGenres(ctx context.Context, genres, excludedMovieIDs []int64) []tmdb.Movie {
	excluded := idSet(excludedMovieIDs)
	seen := make(map[int64]struct{})
	var movies []tmdb.Movie

	for _, genreID := range genres {
		page, err := s.catalog.MoviesByGenre(ctx, genreID, 1)
		if err != nil {
			// partial-failure tolerant: this genre contributes nothing
			slog.Warn("genre query failed, continuing without it", "genre_id", genreID, "error", err)
			continue
		}
		for _, m := range page {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			if _, bad := excluded[m.ID]; bad {
				continue
			}
			seen[m.ID] = struct{}{}
			movies = append(movies, m)
		}
	}

	return rank(movies)
}

// rank sorts by popularity descending and truncates to the page size.
func rank(movies []tmdb.Movie) []tmdb.Movie {
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].Popularity > movies[j].Popularity
	})
	if len(movies) > pageSize {
		movies = movies[:pageSize]
	}
	return movies
}

func unionGenres(sets ...[]int64) []int64 {
	seen := make(map[int64]struct{})
	var union []int64
	for _, set := range sets {
		for _, g := range set {
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				union = append(union, g)
			}
		}
	}
	return union
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
