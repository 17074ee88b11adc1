package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/popcorn-picks/backend/internal/apperr"
	"github.com/popcorn-picks/backend/internal/models"
	"gorm.io/gorm"
)

// PartnerService owns the partnership lifecycle: invitations, the
// accepted-couple registry and its teardown.
type PartnerService struct {
	db *gorm.DB
}

func NewPartnerService(db *gorm.DB) *PartnerService {
	return &PartnerService{db: db}
}

// SendRequest creates a pending invitation from sender to the user matching
// receiver (email or username). At most one pending or accepted request may
// exist per unordered pair; the duplicate check is a query before insert, the
// couple table's pair index is the durable backstop.
func (s *PartnerService) SendRequest(ctx context.Context, senderID uuid.UUID, receiver string) (*models.PartnershipRequest, error) {
	var receiverUser models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", receiver, receiver).
		First(&receiverUser).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("no account matches that email or username")
	}
	if err != nil {
		return nil, err
	}

	if receiverUser.ID == senderID {
		return nil, apperr.InvalidStatef("cannot send a partner request to yourself")
	}

	var existing int64
	err = s.db.WithContext(ctx).Model(&models.PartnershipRequest{}).
		Where("status IN ?", []models.RequestStatus{models.RequestPending, models.RequestAccepted}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			senderID, receiverUser.ID, receiverUser.ID, senderID).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.Conflictf("a partner request already exists between you two")
	}

	req := models.PartnershipRequest{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverUser.ID,
		Status:     models.RequestPending,
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// Respond resolves a pending request. Only the receiver may accept or
// decline. Accepting also materializes the couple for the pair, idempotently:
// an ended couple for the same pair is reactivated rather than duplicated.
func (s *PartnerService) Respond(ctx context.Context, requestID, responderID uuid.UUID, accept bool) (*models.PartnershipRequest, error) {
	var req models.PartnershipRequest
	err := s.db.WithContext(ctx).First(&req, "id = ?", requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("partner request not found")
	}
	if err != nil {
		return nil, err
	}

	if req.ReceiverID != responderID {
		return nil, apperr.Forbiddenf("only the invited user can respond to this request")
	}
	if req.Status != models.RequestPending {
		return nil, apperr.InvalidStatef("this request has already been resolved")
	}

	if !accept {
		req.Status = models.RequestDeclined
		if err := s.db.WithContext(ctx).Model(&req).Update("status", models.RequestDeclined).Error; err != nil {
			return nil, err
		}
		return &req, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&req).Update("status", models.RequestAccepted).Error; err != nil {
			return err
		}
		return ensureCouple(tx, req.SenderID, req.ReceiverID)
	})
	if err != nil {
		return nil, err
	}
	req.Status = models.RequestAccepted
	return &req, nil
}

func ensureCouple(tx *gorm.DB, a, b uuid.UUID) error {
	u1, u2 := models.NormalizePair(a, b)

	var couple models.Couple
	err := tx.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&couple).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		couple = models.Couple{
			ID:      uuid.New(),
			User1ID: u1,
			User2ID: u2,
			Status:  models.CoupleActive,
		}
		return tx.Create(&couple).Error
	case err != nil:
		return err
	case couple.Status == models.CoupleEnded:
		return tx.Model(&couple).Update("status", models.CoupleActive).Error
	default:
		return nil // already active, nothing to do
	}
}

// ResolveCoupleID returns the active couple for a pair, or nil if none exists.
func (s *PartnerService) ResolveCoupleID(ctx context.Context, a, b uuid.UUID) (*models.Couple, error) {
	u1, u2 := models.NormalizePair(a, b)
	var couple models.Couple
	err := s.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ? AND status = ?", u1, u2, models.CoupleActive).
		First(&couple).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

// ActiveCouple returns the caller's active couple, or nil if unpartnered.
func (s *PartnerService) ActiveCouple(ctx context.Context, userID uuid.UUID) (*models.Couple, error) {
	var couple models.Couple
	err := s.db.WithContext(ctx).
		Where("(user1_id = ? OR user2_id = ?) AND status = ?", userID, userID, models.CoupleActive).
		First(&couple).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

// End terminates an active couple. Either member may end it; the accepted
// request for the pair is invalidated alongside the couple.
func (s *PartnerService) End(ctx context.Context, coupleID, actorID uuid.UUID) error {
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
	if couple.Status != models.CoupleActive {
		return apperr.InvalidStatef("this couple has already ended")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return teardownCouple(tx, &couple)
	})
}

// teardownCouple marks a couple ended and invalidates the accepted request
// for its pair. Runs inside the caller's transaction.
func teardownCouple(tx *gorm.DB, couple *models.Couple) error {
	if err := tx.Model(couple).Update("status", models.CoupleEnded).Error; err != nil {
		return err
	}
	return tx.Model(&models.PartnershipRequest{}).
		Where("status = ?", models.RequestAccepted).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			couple.User1ID, couple.User2ID, couple.User2ID, couple.User1ID).
		Update("status", models.RequestEnded).Error
}

// endActiveCouple tears down the user's active couple, if any. Used when an
// account is deleted so the surviving partner is not left in a dangling
// partnership.
func endActiveCouple(tx *gorm.DB, userID uuid.UUID) error {
	var couple models.Couple
	err := tx.Where("(user1_id = ? OR user2_id = ?) AND status = ?",
		userID, userID, models.CoupleActive).First(&couple).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return teardownCouple(tx, &couple)
}

// ListRequests returns the user's pending invitations, incoming and outgoing.
func (s *PartnerService) ListRequests(ctx context.Context, userID uuid.UUID) (incoming, outgoing []models.PartnershipRequest, err error) {
	err = s.db.WithContext(ctx).Preload("Sender").
		Where("receiver_id = ? AND status = ?", userID, models.RequestPending).
		Order("created_at DESC").
		Find(&incoming).Error
	if err != nil {
		return nil, nil, err
	}

	err = s.db.WithContext(ctx).Preload("Receiver").
		Where("sender_id = ? AND status = ?", userID, models.RequestPending).
		Order("created_at DESC").
		Find(&outgoing).Error
	if err != nil {
		return nil, nil, err
	}
	return incoming, outgoing, nil
}

// Partner returns the other member of a couple.
func (s *PartnerService) Partner(ctx context.Context, couple *models.Couple, userID uuid.UUID) (*models.User, error) {
	partnerID := couple.User1ID
	if partnerID == userID {
		partnerID = couple.User2ID
	}
	var partner models.User
	if err := s.db.WithContext(ctx).First(&partner, "id = ?", partnerID).Error; err != nil {
		return nil, fmt.Errorf("failed to load partner: %w", err)
	}
	return &partner, nil
}
