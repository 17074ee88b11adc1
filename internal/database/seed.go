package database

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/popcorn-picks/backend/internal/models"
)

// SeedDemoData resets the database and populates a demo couple mid-session:
// alice and bob are paired, have swiped through a handful of movies, share
// one match and a short joint watchlist. Both accounts use password
// "popcorn123".
func SeedDemoData(db *gorm.DB) error {
	tables := []string{
		"joint_watchlist_entries", "matched_movies", "couple_swipes",
		"couples", "partnership_requests", "refresh_tokens", "users",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}
	slog.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("popcorn123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	alice := models.User{
		ID:          uuid.New(),
		Email:       "alice@example.com",
		Username:    "alice",
		DisplayName: "Alice",
		Password:    string(hash),
	}
	bob := models.User{
		ID:          uuid.New(),
		Email:       "bob@example.com",
		Username:    "bob",
		DisplayName: "Bob",
		Password:    string(hash),
	}
	if err := db.Create(&alice).Error; err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}
	if err := db.Create(&bob).Error; err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	request := models.PartnershipRequest{
		ID:         uuid.New(),
		SenderID:   alice.ID,
		ReceiverID: bob.ID,
		Status:     models.RequestAccepted,
	}
	if err := db.Create(&request).Error; err != nil {
		return fmt.Errorf("failed to seed partnership request: %w", err)
	}

	u1, u2 := models.NormalizePair(alice.ID, bob.ID)
	couple := models.Couple{
		ID:      uuid.New(),
		User1ID: u1,
		User2ID: u2,
		Status:  models.CoupleActive,
	}
	if err := db.Create(&couple).Error; err != nil {
		return fmt.Errorf("failed to seed couple: %w", err)
	}

	// Interstellar (157336) is liked by both and becomes the match.
	// The Notebook (11036) is one-sided; Barbie (346698) is a dislike.
	swipes := []models.CoupleSwipe{
		{CoupleID: couple.ID, UserID: alice.ID, MovieID: 157336, Liked: true, GenreIDs: datatypes.NewJSONSlice([]int64{12, 18, 878})},
		{CoupleID: couple.ID, UserID: bob.ID, MovieID: 157336, Liked: true, GenreIDs: datatypes.NewJSONSlice([]int64{12, 18, 878})},
		{CoupleID: couple.ID, UserID: alice.ID, MovieID: 11036, Liked: true, GenreIDs: datatypes.NewJSONSlice([]int64{10749, 18})},
		{CoupleID: couple.ID, UserID: bob.ID, MovieID: 346698, Liked: false, GenreIDs: datatypes.NewJSONSlice([]int64{35, 12, 14})},
		{CoupleID: uuid.Nil, UserID: alice.ID, MovieID: 27205, Liked: true, GenreIDs: datatypes.NewJSONSlice([]int64{28, 878, 12})},
	}
	for i := range swipes {
		if err := db.Create(&swipes[i]).Error; err != nil {
			return fmt.Errorf("failed to seed swipe: %w", err)
		}
	}

	match := models.MatchedMovie{CoupleID: couple.ID, MovieID: 157336}
	if err := db.Create(&match).Error; err != nil {
		return fmt.Errorf("failed to seed match: %w", err)
	}

	watchlist := []models.JointWatchlistEntry{
		{CoupleID: couple.ID, MovieID: 157336},
		{CoupleID: couple.ID, MovieID: 680},
	}
	for i := range watchlist {
		if err := db.Create(&watchlist[i]).Error; err != nil {
			return fmt.Errorf("failed to seed watchlist entry: %w", err)
		}
	}

	slog.Info("seeded demo couple", "users", 2, "swipes", len(swipes), "matches", 1)
	return nil
}
