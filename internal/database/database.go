// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client    *mongo.Client
	Accounts  *mongo.Collection
	Listings  *mongo.Collection
	Responses *mongo.Collection
}

func NewMongoDB(uri string, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	db := client.Database(dbName)
	return &MongoDB{
		Client:    client,
		Accounts:  db.Collection("accounts"),
		Listings:  db.Collection("listings"),
		Responses: db.Collection("responses"),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// CollectionCounts reports document counts per collection, for the health
// endpoint.
func (m *MongoDB) CollectionCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 3)
	for name, coll := range map[string]*mongo.Collection{
		"accounts":  m.Accounts,
		"listings":  m.Listings,
		"responses": m.Responses,
	} {
		n, err := coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %v", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}
