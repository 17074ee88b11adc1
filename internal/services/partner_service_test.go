package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/popcorn-picks/backend/internal/apperr"
	"github.com/popcorn-picks/backend/internal/models"
	"github.com/popcorn-picks/backend/internal/services"
)

func TestSendRequest(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := svc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, alice.ID, req.SenderID)
	assert.Equal(t, bob.ID, req.ReceiverID)

	// lookup by email works too
	carol := createUser(t, db, "carol")
	req2, err := svc.SendRequest(ctx, alice.ID, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, carol.ID, req2.ReceiverID)
}

func TestSendRequestUnknownReceiver(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")

	_, err := svc.SendRequest(ctx, alice.ID, "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSendRequestToSelf(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")

	_, err := svc.SendRequest(ctx, alice.ID, "alice")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestSendRequestDuplicatePair(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")

	_, err := svc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)

	// same direction
	_, err = svc.SendRequest(ctx, alice.ID, "bob")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// reverse direction blocked too
	bob, err := findUser(db, "bob")
	require.NoError(t, err)
	_, err = svc.SendRequest(ctx, bob.ID, "alice")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRespondAcceptCreatesCouple(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := svc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)

	resolved, err := svc.Respond(ctx, req.ID, bob.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, resolved.Status)

	couple, err := svc.ActiveCouple(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, couple)
	assert.True(t, couple.Member(bob.ID))

	// both members resolve to the same couple
	coupleB, err := svc.ActiveCouple(ctx, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, coupleB)
	assert.Equal(t, couple.ID, coupleB.ID)
}

func TestRespondDecline(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := svc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)

	resolved, err := svc.Respond(ctx, req.ID, bob.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.RequestDeclined, resolved.Status)

	couple, err := svc.ActiveCouple(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, couple)

	// a declined request does not block a fresh one
	_, err = svc.SendRequest(ctx, bob.ID, "alice")
	assert.NoError(t, err)
}

func TestRespondAuthorization(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	mallory := createUser(t, db, "mallory")

	req, err := svc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)

	// only the receiver may respond; the sender cannot accept their own invite
	_, err = svc.Respond(ctx, req.ID, mallory.ID, true)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = svc.Respond(ctx, req.ID, alice.ID, true)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Respond(ctx, uuid.New(), bob.ID, true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRespondAlreadyResolved(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := svc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)

	_, err = svc.Respond(ctx, req.ID, bob.ID, true)
	require.NoError(t, err)

	_, err = svc.Respond(ctx, req.ID, bob.ID, true)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestEndAndRepair(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req, err := svc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)
	_, err = svc.Respond(ctx, req.ID, bob.ID, true)
	require.NoError(t, err)

	couple, err := svc.ActiveCouple(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, couple)

	// an outsider cannot end it
	mallory := createUser(t, db, "mallory")
	err = svc.End(ctx, couple.ID, mallory.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, svc.End(ctx, couple.ID, bob.ID))

	gone, err := svc.ActiveCouple(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// ending twice is an error
	err = svc.End(ctx, couple.ID, alice.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// re-pairing reactivates the same couple row, keeping history attached
	req2, err := svc.SendRequest(ctx, bob.ID, "alice")
	require.NoError(t, err)
	_, err = svc.Respond(ctx, req2.ID, alice.ID, true)
	require.NoError(t, err)

	again, err := svc.ActiveCouple(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, couple.ID, again.ID)
}

func TestListRequests(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	_, err := svc.SendRequest(ctx, alice.ID, "bob")
	require.NoError(t, err)
	_, err = svc.SendRequest(ctx, carol.ID, "bob")
	require.NoError(t, err)

	incoming, outgoing, err := svc.ListRequests(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, incoming, 2)
	assert.Empty(t, outgoing)

	incoming, outgoing, err = svc.ListRequests(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, incoming)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "bob", outgoing[0].Receiver.Username)
}

func TestPartner(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	couple := createCouple(t, db, alice.ID, bob.ID)

	partner, err := svc.Partner(ctx, couple, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, partner.ID)

	partner, err = svc.Partner(ctx, couple, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, partner.ID)
}

func TestResolveCoupleID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := services.NewPartnerService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	couple := createCouple(t, db, alice.ID, bob.ID)

	// order of the pair does not matter
	got, err := svc.ResolveCoupleID(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, couple.ID, got.ID)

	got, err = svc.ResolveCoupleID(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, couple.ID, got.ID)

	// no couple for the pair
	got, err = svc.ResolveCoupleID(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// ended couples do not resolve
	require.NoError(t, svc.End(ctx, couple.ID, alice.ID))
	got, err = svc.ResolveCoupleID(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func findUser(db *gorm.DB, username string) (*models.User, error) {
	var u models.User
	err := db.Where("username = ?", username).First(&u).Error
	return &u, err
}
