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

const leaseholdersCollection = "leaseholders"

// LeaseholderRepository handles leaseholder data operations
type LeaseholderRepository struct {
	client *mongodb.MongoClient
}

// NewLeaseholderRepository creates a new leaseholder repository
func NewLeaseholderRepository(client *mongodb.MongoClient) *LeaseholderRepository {
	return &LeaseholderRepository{client: client}
}

// EnsureIndexes creates necessary indexes for optimal query performance
func (r *LeaseholderRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("status_idx"),
		},
		{
			Keys: bson.D{
				{Key: "propertyId", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("property_status_idx"),
		},
		{
			Keys: bson.D{
				{Key: "orgId", Value: 1},
			},
			Options: options.Index().SetName("org_idx"),
		},
	}

	return r.client.CreateIndexes(ctx, leaseholdersCollection, indexes)
}

// FindByStatus finds all leaseholders in the given status, across organizations.
// The automation tick runs once for the whole deployment, not per org.
func (r *LeaseholderRepository) FindByStatus(ctx context.Context, status domain.LeaseholderStatus) ([]*domain.Leaseholder, error) {
	cursor, err := r.client.Collection(leaseholdersCollection).Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leaseholders []*domain.Leaseholder
	if err = cursor.All(ctx, &leaseholders); err != nil {
		return nil, err
	}

	return leaseholders, nil
}

// FindByID finds a leaseholder by ID
func (r *LeaseholderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Leaseholder, error) {
	var leaseholder domain.Leaseholder
	err := r.client.Collection(leaseholdersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&leaseholder)
	if err != nil {
		return nil, err
	}

	return &leaseholder, nil
}

// Save persists the mutated leaseholder
func (r *LeaseholderRepository) Save(ctx context.Context, leaseholder *domain.Leaseholder) error {
	leaseholder.UpdatedAt = time.Now()

	filter := bson.M{"_id": leaseholder.ID}
	update := bson.M{"$set": leaseholder}

	_, err := r.client.Collection(leaseholdersCollection).UpdateOne(ctx, filter, update)
	return err
}

// CountOccupying counts leaseholders at a property whose status counts toward occupancy
func (r *LeaseholderRepository) CountOccupying(ctx context.Context, propertyID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"propertyId": propertyID,
		"status": bson.M{"$in": []domain.LeaseholderStatus{
			domain.LeaseholderStatusActive,
			domain.LeaseholderStatusLate,
		}},
	}

	return r.client.Collection(leaseholdersCollection).CountDocuments(ctx, filter)
}
