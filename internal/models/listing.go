package models

import (
	"time"

	"github.com/google/uuid"
)

// ListingKind tells whether an item was lost or found by the poster.
type ListingKind string

const (
	KindLost  ListingKind = "lost"
	KindFound ListingKind = "found"
)

func (k ListingKind) Valid() bool {
	return k == KindLost || k == KindFound
}

// Category is the closed set of item categories.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryAccessories Category = "accessories"
	CategoryDocuments   Category = "documents"
	CategoryOthers      Category = "others"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryAccessories, CategoryDocuments, CategoryOthers:
		return true
	}
	return false
}

// MaxListingImages is the most images a single listing may carry.
const MaxListingImages = 3

type Listing struct {
	ID          uuid.UUID   `json:"id"`
	Kind        ListingKind `json:"type"`
	Title       string      `json:"title"`
	Category    Category    `json:"category"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	Images      []Image     `json:"images"`
	OwnerID     uuid.UUID   `json:"userId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ImageURLs returns the hosted URLs in display order.
func (l *Listing) ImageURLs() []string {
	urls := make([]string, len(l.Images))
	for i, img := range l.Images {
		urls[i] = img.URL
	}
	return urls
}
