// Package api holds the JSON shapes the HTTP layer speaks: view models
// assembled by the actors and the response envelopes the handlers write.
package api

import (
	"time"

	"github.com/qazimabbas/LostnFound/internal/models"
)

// PublicProfile is the account shape safe to hand to other users. It never
// carries the password hash.
type PublicProfile struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phoneNo,omitempty"`
	ProfileImage string `json:"profilePic,omitempty"`
}

// ProfileOf builds the public shape of an account.
func ProfileOf(account *models.Account) *PublicProfile {
	return &PublicProfile{
		ID:           account.ID.String(),
		Name:         account.Name,
		Username:     account.Username,
		Email:        account.Email,
		Phone:        account.Phone,
		ProfileImage: account.ProfileImageURL(),
	}
}

// ListingOwner is the slice of the owner's profile attached to a listing.
// Which fields are set depends on the operation: search attaches name and
// email, a single-listing fetch attaches name, picture and join date.
type ListingOwner struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	ProfileImage string     `json:"profilePic,omitempty"`
	JoinedAt     *time.Time `json:"createdAt,omitempty"`
}

// ListingView is a listing with its owner attached.
type ListingView struct {
	ID          string        `json:"_id"`
	Kind        string        `json:"type"`
	Title       string        `json:"title"`
	Category    string        `json:"category"`
	Location    string        `json:"location"`
	Description string        `json:"description"`
	Images      []string      `json:"images"`
	Owner       *ListingOwner `json:"user"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ListingViewOf builds a listing view. owner may be nil when the owning
// account no longer resolves.
func ListingViewOf(listing *models.Listing, owner *ListingOwner) *ListingView {
	return &ListingView{
		ID:          listing.ID.String(),
		Kind:        string(listing.Kind),
		Title:       listing.Title,
		Category:    string(listing.Category),
		Location:    listing.Location,
		Description: listing.Description,
		Images:      listing.ImageURLs(),
		Owner:       owner,
		CreatedAt:   listing.CreatedAt,
		UpdatedAt:   listing.UpdatedAt,
	}
}

// ContactOwner attaches name and email, the search-results shape.
func ContactOwner(account *models.Account) *ListingOwner {
	return &ListingOwner{
		ID:    account.ID.String(),
		Name:  account.Name,
		Email: account.Email,
	}
}

// DetailOwner attaches name, picture and join date, the single-listing shape.
func DetailOwner(account *models.Account) *ListingOwner {
	joined := account.CreatedAt
	return &ListingOwner{
		ID:           account.ID.String(),
		Name:         account.Name,
		ProfileImage: account.ProfileImageURL(),
		JoinedAt:     &joined,
	}
}

// ListingSummary is the slice of a listing attached to a response.
type ListingSummary struct {
	ID     string   `json:"_id"`
	Title  string   `json:"title"`
	Kind   string   `json:"type"`
	Images []string `json:"images"`
}

// SummaryOf builds the response-attached listing shape.
func SummaryOf(listing *models.Listing) *ListingSummary {
	return &ListingSummary{
		ID:     listing.ID.String(),
		Title:  listing.Title,
		Kind:   string(listing.Kind),
		Images: listing.ImageURLs(),
	}
}

// ResponseView is a response with its listing summary and, depending on the
// operation, the counterpart's public profile attached.
type ResponseView struct {
	ID        string          `json:"_id"`
	Listing   *ListingSummary `json:"item"`
	Sender    *PublicProfile  `json:"sender,omitempty"`
	Receiver  *PublicProfile  `json:"receiver,omitempty"`
	Message   string          `json:"message"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ResponseViewOf builds a response view without attachments; callers fill in
// Listing, Sender and Receiver as the operation requires.
func ResponseViewOf(response *models.Response) *ResponseView {
	return &ResponseView{
		ID:        response.ID.String(),
		Message:   response.Message,
		Status:    string(response.Status),
		CreatedAt: response.CreatedAt,
		UpdatedAt: response.UpdatedAt,
	}
}
