package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/popcorn-picks/backend/internal/apperr"
	"github.com/popcorn-picks/backend/internal/models"
	"github.com/popcorn-picks/backend/internal/realtime"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchService records swipes and promotes mutual likes into durable
// matches. Detection assumes two-member couples: a movie matches as soon as
// two distinct users have liked it within the couple context.
type MatchService struct {
	db     *gorm.DB
	broker realtime.Broker
}

func NewMatchService(db *gorm.DB, broker realtime.Broker) *MatchService {
	return &MatchService{db: db, broker: broker}
}

// RecordSwipe upserts the swipe decision and, for couple-scoped likes, runs
// match detection. Solo swipes (coupleID == uuid.Nil) are stored but never
// participate in matching.
//
// A failure after the swipe write (the match query or match write) is logged
// and reported as no-match rather than an error: the swipe row is durable and
// the same detection re-runs the next time the movie is checked.
func (s *MatchService) RecordSwipe(ctx context.Context, coupleID, userID uuid.UUID, movieID int64, liked bool, genreIDs []int64) (bool, error) {
	swipe := models.CoupleSwipe{
		CoupleID: coupleID,
		UserID:   userID,
		MovieID:  movieID,
		Liked:    liked,
		GenreIDs: genreIDs,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "couple_id"}, {Name: "user_id"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"liked", "genre_ids", "updated_at"}),
		}).
		Create(&swipe).Error
	if err != nil {
		return false, err
	}

	if !liked || coupleID == uuid.Nil {
		return false, nil
	}

	matched, err := s.CheckMatch(ctx, coupleID, movieID)
	if err != nil {
		slog.Error("match detection failed, swipe is recorded and will be re-checked",
			"error", err, "couple_id", coupleID, "movie_id", movieID)
		return false, nil
	}
	return matched, nil
}

// CheckMatch re-derives the match state for (couple, movie): if both members
// have a liked row, the matched-movie record is upserted idempotently. Safe
// to call any number of times; callers use it defensively when loading a
// movie.
func (s *MatchService) CheckMatch(ctx context.Context, coupleID uuid.UUID, movieID int64) (bool, error) {
	var likers int64
	err := s.db.WithContext(ctx).Model(&models.CoupleSwipe{}).
		Distinct("user_id").
		Where("couple_id = ? AND movie_id = ? AND liked = ?", coupleID, movieID, true).
		Count(&likers).Error
	if err != nil {
		return false, err
	}
	if likers < 2 {
		return false, nil
	}

	match := models.MatchedMovie{CoupleID: coupleID, MovieID: movieID}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&match).Error
	if err != nil {
		return false, err
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, realtime.Event{
			CoupleID: coupleID,
			Kind:     realtime.EventMatch,
			MovieID:  movieID,
		}); err != nil {
			slog.Error("failed to publish match event", "error", err, "couple_id", coupleID)
		}
	}
	return true, nil
}

// ListMatches returns the couple's matched movies, newest first.
func (s *MatchService) ListMatches(ctx context.Context, coupleID uuid.UUID) ([]models.MatchedMovie, error) {
	var matches []models.MatchedMovie
	err := s.db.WithContext(ctx).
		Where("couple_id = ?", coupleID).
		Order("matched_at DESC").
		Find(&matches).Error
	return matches, err
}

// RemoveMatch deletes a matched movie on explicit user action. Idempotent:
// removing an absent match is a no-op.
func (s *MatchService) RemoveMatch(ctx context.Context, coupleID, actorID uuid.UUID, movieID int64) error {
	var couple models.Couple
	err := s.db.WithContext(ctx).First(&couple, "id = ?", coupleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("couple not found")
	}
	if err != nil {
		return err
	}
	if !couple.Member(actorID) {
		return apperr.Forbiddenf("you are not a member of this couple")
	}

	err = s.db.WithContext(ctx).
		Where("couple_id = ? AND movie_id = ?", coupleID, movieID).
		Delete(&models.MatchedMovie{}).Error
	if err != nil {
		return err
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, realtime.Event{
			CoupleID: coupleID,
			Kind:     realtime.EventMatch,
			MovieID:  movieID,
		}); err != nil {
			slog.Error("failed to publish match removal event", "error", err, "couple_id", coupleID)
		}
	}
	return nil
}

// LikedGenres derives the user's preference profile: the distinct genre ids
// across all of their liked swipes, couple-scoped or solo.
func (s *MatchService) LikedGenres(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	var swipes []models.CoupleSwipe
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND liked = ?", userID, true).
		Find(&swipes).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var genres []int64
	for _, sw := range swipes {
		for _, g := range sw.GenreIDs {
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				genres = append(genres, g)
			}
		}
	}
	return genres, nil
}

// SwipedMovieIDs returns the user's liked and disliked movie id sets.
func (s *MatchService) SwipedMovieIDs(ctx context.Context, userID uuid.UUID) (liked, disliked []int64, err error) {
	var swipes []models.CoupleSwipe
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&swipes).Error
	if err != nil {
		return nil, nil, err
	}

	for _, sw := range swipes {
		if sw.Liked {
			liked = append(liked, sw.MovieID)
		} else {
			disliked = append(disliked, sw.MovieID)
		}
	}
	return liked, disliked, nil
}
