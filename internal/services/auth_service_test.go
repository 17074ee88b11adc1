package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popcorn-picks/backend/internal/config"
	"github.com/popcorn-picks/backend/internal/dto"
	"github.com/popcorn-picks/backend/internal/models"
	"github.com/popcorn-picks/backend/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice", resp.User.DisplayName, "display name defaults to username")

	// the access token is a signed JWT carrying the user id
	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), sub)

	login, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@b.c", Username: "a", Password: "short"})
	assert.Error(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Email: "", Username: "a", Password: "longenough"})
	assert.Error(t, err)
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Username: "other", Password: "supersecret"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	_, err = svc.Register(&dto.RegisterRequest{Email: "other@example.com", Username: "alice", Password: "supersecret"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRefreshRotation(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "supersecret"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// the presented token is single-use
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	alice := createUser(t, db, "alice")

	name := "Alice in Wonderland"
	avatar := "https://example.com/alice.png"
	updated, err := svc.UpdateProfile(alice.ID, &dto.UpdateProfileRequest{
		DisplayName: &name,
		AvatarURL:   &avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.DisplayName)
	assert.Equal(t, avatar, updated.AvatarURL)

	// nil fields stay untouched
	updated, err = svc.UpdateProfile(alice.ID, &dto.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, name, updated.DisplayName)
}

func TestDeleteAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "supersecret"})
	require.NoError(t, err)
	alice, err := findUser(db, "alice")
	require.NoError(t, err)

	// wrong or missing password is rejected
	err = svc.DeleteAccount(alice.ID, "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	err = svc.DeleteAccount(alice.ID, "")
	assert.ErrorIs(t, err, services.ErrPasswordRequired)

	require.NoError(t, svc.DeleteAccount(alice.ID, "supersecret"))

	_, err = svc.GetUser(alice.ID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	var tokens int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", alice.ID).Count(&tokens).Error)
	assert.Zero(t, tokens)
}

func TestDeleteAccountEndsPartnership(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())
	partnerSvc := services.NewPartnerService(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	_, err := svc.Register(&dto.RegisterRequest{Email: "bob@example.com", Username: "bob", Password: "supersecret"})
	require.NoError(t, err)
	bob, err := findUser(db, "bob")
	require.NoError(t, err)

	req, err := partnerSvc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)
	_, err = partnerSvc.Respond(ctx, req.ID, bob.ID, true)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(bob.ID, "supersecret"))

	// the survivor is no longer partnered
	couple, err := partnerSvc.ActiveCouple(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, couple)

	// the accepted request was invalidated, so alice can pair again
	var accepted int64
	require.NoError(t, db.Model(&models.PartnershipRequest{}).
		Where("status = ?", models.RequestAccepted).Count(&accepted).Error)
	assert.Zero(t, accepted)
}

func TestDeleteAccountRollsBackOnFailedCleanup(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "supersecret"})
	require.NoError(t, err)
	alice, err := findUser(db, "alice")
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.CoupleSwipe{}))

	assert.Error(t, svc.DeleteAccount(alice.ID, "supersecret"))

	// the whole transaction rolled back, the account survives
	_, err = svc.GetUser(alice.ID)
	require.NoError(t, err)
	var tokens int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", alice.ID).Count(&tokens).Error)
	assert.NotZero(t, tokens)
}
