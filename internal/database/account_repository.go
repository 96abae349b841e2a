// internal/database/account_repository.go
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

// AccountDocument represents the MongoDB schema for an account
type AccountDocument struct {
	ID             string        `bson:"_id"`            // MongoDB primary key
	Name           string        `bson:"name"`           // Display name
	Username       string        `bson:"username"`       // Unique username
	Email          string        `bson:"email"`          // Unique email address
	HashedPassword string        `bson:"hashedPassword"` // Hashed password
	Phone          string        `bson:"phoneNo"`        // Phone number
	ProfileImage   *models.Image `bson:"profilePic,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt"`
}

func accountToDocument(account *models.Account) AccountDocument {
	return AccountDocument{
		ID:             account.ID.String(),
		Name:           account.Name,
		Username:       account.Username,
		Email:          account.Email,
		HashedPassword: account.HashedPassword,
		Phone:          account.Phone,
		ProfileImage:   account.ProfileImage,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}

func documentToAccount(doc *AccountDocument) (*models.Account, error) {
	accountID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid account ID in database: %v", err)
	}

	return &models.Account{
		ID:             accountID,
		Name:           doc.Name,
		Username:       doc.Username,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		Phone:          doc.Phone,
		ProfileImage:   doc.ProfileImage,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

// SaveAccount creates or updates an account in MongoDB
func (m *MongoDB) SaveAccount(ctx context.Context, account *models.Account) error {
	doc := accountToDocument(account)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": account.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Accounts.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetAccount retrieves an account from MongoDB by its ID
func (m *MongoDB) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var doc AccountDocument

	err := m.Accounts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAccountNotFoundError()
	}
	if err != nil {
		return nil, err
	}

	return documentToAccount(&doc)
}

// GetAccountByEmail retrieves an account from MongoDB by its email address
func (m *MongoDB) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var doc AccountDocument

	err := m.Accounts.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAccountNotFoundError()
	}
	if err != nil {
		return nil, err
	}

	return documentToAccount(&doc)
}

// GetAccountByUsername retrieves an account from MongoDB by its username
func (m *MongoDB) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var doc AccountDocument

	err := m.Accounts.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAccountNotFoundError()
	}
	if err != nil {
		return nil, err
	}

	return documentToAccount(&doc)
}

// GetAccountsByIDs retrieves several accounts at once, keyed by ID. Missing
// IDs are simply absent from the result.
func (m *MongoDB) GetAccountsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Account, error) {
	accounts := make(map[uuid.UUID]*models.Account, len(ids))
	if len(ids) == 0 {
		return accounts, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	cursor, err := m.Accounts.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings}})
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %v", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc AccountDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode account: %v", err)
		}
		account, err := documentToAccount(&doc)
		if err != nil {
			return nil, err
		}
		accounts[account.ID] = account
	}

	return accounts, cursor.Err()
}
