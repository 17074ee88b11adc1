package services

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/popcorn-picks/backend/internal/kvstore"
)

// PreferenceService holds the per-user solo features on the pluggable
// key-value store: the solo watchlist, the liked-genre preference set, and
// free-form personalize settings. Each collection lives in its own namespace
// so the store can be swapped without touching the logic.
type PreferenceService struct {
	store kvstore.Store
}

func NewPreferenceService(store kvstore.Store) *PreferenceService {
	return &PreferenceService{store: store}
}

// --- solo watchlist ---

func (s *PreferenceService) AddToWatchlist(ctx context.Context, userID uuid.UUID, movieID int64) error {
	return s.store.SAdd(ctx, kvstore.NSWatchlist, userID.String(), formatID(movieID))
}

func (s *PreferenceService) RemoveFromWatchlist(ctx context.Context, userID uuid.UUID, movieID int64) error {
	return s.store.SRem(ctx, kvstore.NSWatchlist, userID.String(), formatID(movieID))
}

func (s *PreferenceService) Watchlist(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	members, err := s.store.SMembers(ctx, kvstore.NSWatchlist, userID.String())
	if err != nil {
		return nil, err
	}
	return parseIDs(members), nil
}

// --- liked-genre preference set ---

// RecordLikedGenres writes through the genre ids of a liked movie.
func (s *PreferenceService) RecordLikedGenres(ctx context.Context, userID uuid.UUID, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	members := make([]string, len(genreIDs))
	for i, g := range genreIDs {
		members[i] = formatID(g)
	}
	return s.store.SAdd(ctx, kvstore.NSPreferences, userID.String(), members...)
}

func (s *PreferenceService) LikedGenres(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	members, err := s.store.SMembers(ctx, kvstore.NSPreferences, userID.String())
	if err != nil {
		return nil, err
	}
	return parseIDs(members), nil
}

// --- personalize settings ---

func (s *PreferenceService) SetPersonalize(ctx context.Context, userID uuid.UUID, settings string) error {
	return s.store.Set(ctx, kvstore.NSPersonalize, userID.String(), settings)
}

func (s *PreferenceService) GetPersonalize(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.store.Get(ctx, kvstore.NSPersonalize, userID.String())
}

// Clear removes every solo collection for a user (account deletion).
func (s *PreferenceService) Clear(ctx context.Context, userID uuid.UUID) error {
	key := userID.String()
	for _, ns := range []string{kvstore.NSWatchlist, kvstore.NSPreferences, kvstore.NSPersonalize} {
		if err := s.store.Delete(ctx, ns, key); err != nil {
			return err
		}
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseIDs(members []string) []int64 {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
