package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Phone          string    `json:"phoneNo"`
	ProfileImage   *Image    `json:"profilePic,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileImageURL returns the hosted URL of the profile image, or "" when the
// account has none.
func (a *Account) ProfileImageURL() string {
	if a.ProfileImage == nil {
		return ""
	}
	return a.ProfileImage.URL
}
