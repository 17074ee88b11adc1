package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CoupleSwipe is one user's like/dislike decision on one movie.
//
// Composite PK (couple_id, user_id, movie_id) gives the overwrite guarantee:
// re-swiping the same movie replaces the earlier decision instead of
// appending. Solo swipes use the zero couple id and never take part in match
// detection.
//
// GenreIDs snapshots the movie's genres at swipe time so the per-user
// preference profile can be derived without re-fetching the catalog.
type CoupleSwipe struct {
	CoupleID  uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"couple_id"`
	UserID    uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"user_id"`
	MovieID   int64                      `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	Liked     bool                       `gorm:"not null;index:idx_swipes_couple_movie_liked" json:"liked"`
	GenreIDs  datatypes.JSONSlice[int64] `json:"genre_ids"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// MatchedMovie records a movie both members of a couple liked independently.
// Composite PK makes the promotion idempotent; rows are only removed by
// explicit user action.
type MatchedMovie struct {
	CoupleID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"couple_id"`
	MovieID   int64     `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	MatchedAt time.Time `gorm:"autoCreateTime" json:"matched_at"`
}

// JointWatchlistEntry is a couple-scoped watchlist item, independent of the
// match lifecycle, mutable by either partner.
type JointWatchlistEntry struct {
	CoupleID uuid.UUID `gorm:"type:uuid;primaryKey" json:"couple_id"`
	MovieID  int64     `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	AddedAt  time.Time `gorm:"autoCreateTime" json:"added_at"`
}
