// internal/database/response_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

// ResponseDocument represents the MongoDB schema for a response
type ResponseDocument struct {
	ID                string    `bson:"_id"`
	ListingID         string    `bson:"itemId"`
	SenderID          string    `bson:"senderId"`
	ReceiverID        string    `bson:"receiverId"`
	Message           string    `bson:"message"`
	Status            string    `bson:"status"`
	DeletedBySender   bool      `bson:"deletedBySender"`
	DeletedByReceiver bool      `bson:"deletedByReceiver"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

func responseToDocument(response *models.Response) ResponseDocument {
	return ResponseDocument{
		ID:                response.ID.String(),
		ListingID:         response.ListingID.String(),
		SenderID:          response.SenderID.String(),
		ReceiverID:        response.ReceiverID.String(),
		Message:           response.Message,
		Status:            string(response.Status),
		DeletedBySender:   response.DeletedBySender,
		DeletedByReceiver: response.DeletedByReceiver,
		CreatedAt:         response.CreatedAt,
		UpdatedAt:         response.UpdatedAt,
	}
}

func documentToResponse(doc *ResponseDocument) (*models.Response, error) {
	responseID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid response ID in database: %v", err)
	}
	listingID, err := uuid.Parse(doc.ListingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID in database: %v", err)
	}
	senderID, err := uuid.Parse(doc.SenderID)
	if err != nil {
		return nil, fmt.Errorf("invalid sender ID in database: %v", err)
	}
	receiverID, err := uuid.Parse(doc.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver ID in database: %v", err)
	}

	return &models.Response{
		ID:                responseID,
		ListingID:         listingID,
		SenderID:          senderID,
		ReceiverID:        receiverID,
		Message:           doc.Message,
		Status:            models.ResponseStatus(doc.Status),
		DeletedBySender:   doc.DeletedBySender,
		DeletedByReceiver: doc.DeletedByReceiver,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}, nil
}

// SaveResponse creates or updates a response in MongoDB
func (m *MongoDB) SaveResponse(ctx context.Context, response *models.Response) error {
	doc := responseToDocument(response)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": response.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Responses.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetResponse retrieves a response from MongoDB by its ID
func (m *MongoDB) GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error) {
	var doc ResponseDocument

	err := m.Responses.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewResponseNotFoundError()
	}
	if err != nil {
		return nil, err
	}

	return documentToResponse(&doc)
}

// GetActiveResponse finds the sender's non-sender-deleted response on a
// listing, regardless of status. Returns (nil, nil) when there is none.
func (m *MongoDB) GetActiveResponse(ctx context.Context, listingID uuid.UUID, senderID uuid.UUID) (*models.Response, error) {
	var doc ResponseDocument

	filter := bson.M{
		"itemId":          listingID.String(),
		"senderId":        senderID.String(),
		"deletedBySender": false,
	}

	err := m.Responses.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return documentToResponse(&doc)
}

// GetResponsesBySender returns a sender's non-sender-deleted responses,
// newest first.
func (m *MongoDB) GetResponsesBySender(ctx context.Context, senderID uuid.UUID) ([]*models.Response, error) {
	filter := bson.M{
		"senderId":        senderID.String(),
		"deletedBySender": false,
	}
	return m.findResponses(ctx, filter)
}

// GetResponsesForListings returns non-receiver-deleted responses targeting
// any of the given listings, newest first.
func (m *MongoDB) GetResponsesForListings(ctx context.Context, listingIDs []uuid.UUID) ([]*models.Response, error) {
	if len(listingIDs) == 0 {
		return []*models.Response{}, nil
	}

	idStrings := make([]string, len(listingIDs))
	for i, id := range listingIDs {
		idStrings[i] = id.String()
	}

	filter := bson.M{
		"itemId":            bson.M{"$in": idStrings},
		"deletedByReceiver": false,
	}
	return m.findResponses(ctx, filter)
}

// UpdateResponseStatus sets a response's status
func (m *MongoDB) UpdateResponseStatus(ctx context.Context, id uuid.UUID, status models.ResponseStatus) error {
	update := bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": time.Now(),
	}}

	result, err := m.Responses.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return fmt.Errorf("failed to update response status: %v", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewResponseNotFoundError()
	}
	return nil
}

// SetDeletionFlag marks a response deleted for one party.
func (m *MongoDB) SetDeletionFlag(ctx context.Context, id uuid.UUID, bySender bool) error {
	field := "deletedByReceiver"
	if bySender {
		field = "deletedBySender"
	}

	update := bson.M{"$set": bson.M{
		field:       true,
		"updatedAt": time.Now(),
	}}

	result, err := m.Responses.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return fmt.Errorf("failed to set deletion flag: %v", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewResponseNotFoundError()
	}
	return nil
}

// DeleteResponse physically removes a response record
func (m *MongoDB) DeleteResponse(ctx context.Context, id uuid.UUID) error {
	result, err := m.Responses.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete response: %v", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewResponseNotFoundError()
	}
	return nil
}

func (m *MongoDB) findResponses(ctx context.Context, filter bson.M) ([]*models.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.Responses.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find responses: %v", err)
	}
	defer cursor.Close(ctx)

	responses := []*models.Response{}
	for cursor.Next(ctx) {
		var doc ResponseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode response: %v", err)
		}
		response, err := documentToResponse(&doc)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}

	return responses, cursor.Err()
}
