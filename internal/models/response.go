package models

import (
	"time"

	"github.com/google/uuid"
)

// ResponseStatus is the flat status enum on a response. Any value may be set
// to any other by the receiver; no transition graph is enforced.
type ResponseStatus string

const (
	StatusPending  ResponseStatus = "pending"
	StatusApproved ResponseStatus = "approved"
	StatusRejected ResponseStatus = "rejected"
)

func (s ResponseStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Response is a message from a sender to a listing owner about an item.
// ReceiverID is the listing's owner captured at creation time and is never
// re-derived afterwards.
type Response struct {
	ID                uuid.UUID      `json:"id"`
	ListingID         uuid.UUID      `json:"itemId"`
	SenderID          uuid.UUID      `json:"senderId"`
	ReceiverID        uuid.UUID      `json:"receiverId"`
	Message           string         `json:"message"`
	Status            ResponseStatus `json:"status"`
	DeletedBySender   bool           `json:"-"`
	DeletedByReceiver bool           `json:"-"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// DeletedBy reports the caller-side deletion flag.
func (r *Response) DeletedBy(accountID uuid.UUID) bool {
	if accountID == r.SenderID {
		return r.DeletedBySender
	}
	if accountID == r.ReceiverID {
		return r.DeletedByReceiver
	}
	return false
}
