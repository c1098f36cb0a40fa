package repository

import (
	"context"
	"time"

	"github.com/vhvplatform/go-property-automation/internal/domain"
	"github.com/vhvplatform/go-property-automation/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const propertiesCollection = "properties"

// PropertyRepository handles property data operations
type PropertyRepository struct {
	client *mongodb.MongoClient
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(client *mongodb.MongoClient) *PropertyRepository {
	return &PropertyRepository{client: client}
}

// EnsureIndexes creates necessary indexes for optimal query performance
func (r *PropertyRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "orgId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("org_created_idx"),
		},
	}

	return r.client.CreateIndexes(ctx, propertiesCollection, indexes)
}

// FindAll returns all properties across organizations for the occupancy pass
func (r *PropertyRepository) FindAll(ctx context.Context) ([]*domain.Property, error) {
	cursor, err := r.client.Collection(propertiesCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []*domain.Property
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, err
	}

	return properties, nil
}

// FindByID finds a property by ID with org isolation
func (r *PropertyRepository) FindByID(ctx context.Context, id string, orgID string) (*domain.Property, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var property domain.Property
	filter := bson.M{"_id": objectID, "orgId": orgID}
	err = r.client.Collection(propertiesCollection).FindOne(ctx, filter).Decode(&property)
	if err != nil {
		return nil, err
	}

	return &property, nil
}

// Save persists the mutated property
func (r *PropertyRepository) Save(ctx context.Context, property *domain.Property) error {
	property.UpdatedAt = time.Now()

	filter := bson.M{"_id": property.ID}
	update := bson.M{"$set": property}

	result, err := r.client.Collection(propertiesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
