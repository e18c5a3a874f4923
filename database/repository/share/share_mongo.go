package shareRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"towgo/models"
	"towgo/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding location shares.
const CollectionName = "location_shares"

// MongoShareRepo implements ShareRepository using MongoDB.
type MongoShareRepo struct {
	coll *mongo.Collection
}

// NewMongoShareRepo creates a new instance of ShareRepository using MongoDB.
func NewMongoShareRepo(coll *mongo.Collection) ShareRepository {
	return &MongoShareRepo{coll: coll}
}

// EnsureIndexes creates indexes for share lookups and expiry.
// Mongo removes expired documents lazily, so readers still check ExpiresAt.
func (r *MongoShareRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "shareId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new share document.
func (r *MongoShareRepo) Create(ctx context.Context, share *models.LocationShare) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, share); err != nil {
		return fmt.Errorf("failed to create location share: %w", err)
	}
	return nil
}

// GetByShareID fetches a share by its public ID.
func (r *MongoShareRepo) GetByShareID(ctx context.Context, shareID string) (*models.LocationShare, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	var share models.LocationShare
	err := r.coll.FindOne(ctx, bson.M{"shareId": shareID}).Decode(&share)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location share %s: %w", shareID, err)
	}
	return &share, nil
}
