package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/popcorn-picks/backend/internal/models"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.PartnershipRequest{},
		&models.Couple{},
		&models.CoupleSwipe{},
		&models.MatchedMovie{},
		&models.JointWatchlistEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		ID:          uuid.New(),
		Email:       username + "@example.com",
		Username:    username,
		DisplayName: username,
		Password:    string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createCouple(t *testing.T, db *gorm.DB, a, b uuid.UUID) *models.Couple {
	t.Helper()
	u1, u2 := models.NormalizePair(a, b)
	couple := models.Couple{
		ID:      uuid.New(),
		User1ID: u1,
		User2ID: u2,
		Status:  models.CoupleActive,
	}
	if err := db.Create(&couple).Error; err != nil {
		t.Fatalf("failed to create couple: %v", err)
	}
	return &couple
}
