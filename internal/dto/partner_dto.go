package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendPartnerRequest struct {
	// Partner is the receiver's email address or username.
	Partner string `json:"partner"`
}

type RespondPartnerRequest struct {
	Decision string `json:"decision"` // "accept" or "decline"
}

type PartnerRequestResponse struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Sender     string    `json:"sender,omitempty"`
	Receiver   string    `json:"receiver,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type CoupleResponse struct {
	ID        uuid.UUID    `json:"id"`
	PartnerID uuid.UUID    `json:"partner_id"`
	Partner   UserResponse `json:"partner"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}
