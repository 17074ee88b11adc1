package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/popcorn-picks/backend/internal/models"
	"github.com/popcorn-picks/backend/internal/realtime"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistService maintains the couple's joint watchlist: a deduplicated,
// unordered movie set either partner may mutate. All operations are
// idempotent, so concurrent adds or removes from both partners commute.
type WatchlistService struct {
	db     *gorm.DB
	broker realtime.Broker
}

func NewWatchlistService(db *gorm.DB, broker realtime.Broker) *WatchlistService {
	return &WatchlistService{db: db, broker: broker}
}

// Add inserts a movie; a no-op if already present.
func (s *WatchlistService) Add(ctx context.Context, coupleID uuid.UUID, movieID int64) error {
	entry := models.JointWatchlistEntry{CoupleID: coupleID, MovieID: movieID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return err
	}
	s.notify(ctx, coupleID, movieID)
	return nil
}

// Remove deletes a movie; a no-op if absent.
func (s *WatchlistService) Remove(ctx context.Context, coupleID uuid.UUID, movieID int64) error {
	err := s.db.WithContext(ctx).
		Where("couple_id = ? AND movie_id = ?", coupleID, movieID).
		Delete(&models.JointWatchlistEntry{}).Error
	if err != nil {
		return err
	}
	s.notify(ctx, coupleID, movieID)
	return nil
}

// List returns the watchlist's movie ids, newest first.
func (s *WatchlistService) List(ctx context.Context, coupleID uuid.UUID) ([]int64, error) {
	var entries []models.JointWatchlistEntry
	err := s.db.WithContext(ctx).
		Where("couple_id = ?", coupleID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MovieID)
	}
	return ids, nil
}

func (s *WatchlistService) notify(ctx context.Context, coupleID uuid.UUID, movieID int64) {
	if s.broker == nil {
		return
	}
	err := s.broker.Publish(ctx, realtime.Event{
		CoupleID: coupleID,
		Kind:     realtime.EventWatchlist,
		MovieID:  movieID,
	})
	if err != nil {
		slog.Error("failed to publish watchlist event", "error", err, "couple_id", coupleID)
	}
}
