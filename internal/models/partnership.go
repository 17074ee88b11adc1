package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
	RequestEnded    RequestStatus = "ended"
)

// PartnershipRequest is an invitation from sender to receiver. At most one
// pending or accepted request may exist per unordered user pair; enforced by
// a query before insert in the partner service.
type PartnershipRequest struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID     `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Status     RequestStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

type CoupleStatus string

const (
	CoupleActive CoupleStatus = "active"
	CoupleEnded  CoupleStatus = "ended"
)

// Couple is the durable identifier for an accepted partnership.
//
// User1ID/User2ID are stored in normalized order (see NormalizePair) and carry
// a composite unique index, so the same pair can never produce two rows no
// matter which side accepted. Re-pairing after an end reactivates the row,
// keeping historical matches attached to the same couple id.
type Couple struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	User1ID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_couples_pair" json:"user1_id"`
	User2ID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_couples_pair" json:"user2_id"`
	Status    CoupleStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Member reports whether the given user belongs to the couple.
func (c *Couple) Member(userID uuid.UUID) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// NormalizePair orders two user ids so that (a, b) and (b, a) address the
// same couple row.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}
