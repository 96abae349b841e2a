// internal/database/listing_repository.go
package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

// ListingDocument represents the MongoDB schema for a listing
type ListingDocument struct {
	ID          string         `bson:"_id"`
	Kind        string         `bson:"type"` // "lost" or "found"
	Title       string         `bson:"title"`
	Category    string         `bson:"category"`
	Location    string         `bson:"location"`
	Description string         `bson:"description"`
	Images      []models.Image `bson:"images"`
	OwnerID     string         `bson:"userId"`
	CreatedAt   time.Time      `bson:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt"`
}

// ListingSearch holds the optional predicates of a listing search. Zero
// values mean "no filter"; Category "all" is treated the same as empty.
type ListingSearch struct {
	Kind      string
	Category  string
	FreeText  string
	DateRange string // "today", "week" or "month"
	Location  string
}

func listingToDocument(listing *models.Listing) ListingDocument {
	return ListingDocument{
		ID:          listing.ID.String(),
		Kind:        string(listing.Kind),
		Title:       listing.Title,
		Category:    string(listing.Category),
		Location:    listing.Location,
		Description: listing.Description,
		Images:      listing.Images,
		OwnerID:     listing.OwnerID.String(),
		CreatedAt:   listing.CreatedAt,
		UpdatedAt:   listing.UpdatedAt,
	}
}

func documentToListing(doc *ListingDocument) (*models.Listing, error) {
	listingID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID in database: %v", err)
	}
	ownerID, err := uuid.Parse(doc.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID in database: %v", err)
	}

	return &models.Listing{
		ID:          listingID,
		Kind:        models.ListingKind(doc.Kind),
		Title:       doc.Title,
		Category:    models.Category(doc.Category),
		Location:    doc.Location,
		Description: doc.Description,
		Images:      doc.Images,
		OwnerID:     ownerID,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// SaveListing creates or updates a listing in MongoDB
func (m *MongoDB) SaveListing(ctx context.Context, listing *models.Listing) error {
	doc := listingToDocument(listing)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": listing.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Listings.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetListing retrieves a listing from MongoDB by its ID
func (m *MongoDB) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var doc ListingDocument

	err := m.Listings.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewListingNotFoundError()
	}
	if err != nil {
		return nil, err
	}

	return documentToListing(&doc)
}

// SearchListings returns listings matching all supplied predicates, newest
// first.
func (m *MongoDB) SearchListings(ctx context.Context, query ListingSearch) ([]*models.Listing, error) {
	filter := searchFilter(query, time.Now())
	return m.findListings(ctx, filter)
}

// GetListingsByOwner returns an owner's listings, newest first. An empty kind
// matches both lost and found listings.
func (m *MongoDB) GetListingsByOwner(ctx context.Context, ownerID uuid.UUID, kind models.ListingKind) ([]*models.Listing, error) {
	filter := bson.M{"userId": ownerID.String()}
	if kind != "" {
		filter["type"] = string(kind)
	}
	return m.findListings(ctx, filter)
}

// DeleteListing removes a listing record from MongoDB
func (m *MongoDB) DeleteListing(ctx context.Context, id uuid.UUID) error {
	result, err := m.Listings.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete listing: %v", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewListingNotFoundError()
	}
	return nil
}

func (m *MongoDB) findListings(ctx context.Context, filter bson.M) ([]*models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.Listings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %v", err)
	}
	defer cursor.Close(ctx)

	listings := []*models.Listing{}
	for cursor.Next(ctx) {
		var doc ListingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %v", err)
		}
		listing, err := documentToListing(&doc)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, cursor.Err()
}

// searchFilter builds the bson filter for a listing search. now is passed in
// so the date windows are testable.
func searchFilter(query ListingSearch, now time.Time) bson.M {
	filter := bson.M{}

	if query.Kind != "" {
		filter["type"] = query.Kind
	}

	if query.Category != "" && query.Category != "all" {
		filter["category"] = query.Category
	}

	if query.Location != "" {
		filter["location"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(query.Location),
			Options: "i",
		}
	}

	if since, ok := dateWindowStart(query.DateRange, now); ok {
		filter["createdAt"] = bson.M{"$gte": since}
	}

	if query.FreeText != "" {
		pattern := primitive.Regex{
			Pattern: regexp.QuoteMeta(query.FreeText),
			Options: "i",
		}
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"description": pattern},
		}
	}

	return filter
}

// dateWindowStart resolves a named date range to its lower bound. "today"
// means the start of the current day, not now minus 24 hours.
func dateWindowStart(dateRange string, now time.Time) (time.Time, bool) {
	switch dateRange {
	case "today":
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}
