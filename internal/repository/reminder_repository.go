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

const remindersCollection = "reminders"

// ReminderRepository handles reminder data operations
type ReminderRepository struct {
	client *mongodb.MongoClient
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(client *mongodb.MongoClient) *ReminderRepository {
	return &ReminderRepository{client: client}
}

// EnsureIndexes creates necessary indexes for optimal query performance
func (r *ReminderRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "nextRunDate", Value: 1},
			},
			Options: options.Index().SetName("due_scan_idx"),
		},
		{
			Keys: bson.D{
				{Key: "orgId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("org_created_idx"),
		},
		{
			Keys: bson.D{
				{Key: "leaseholderId", Value: 1},
				{Key: "type", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("leaseholder_type_status_idx").SetSparse(true),
		},
	}

	return r.client.CreateIndexes(ctx, remindersCollection, indexes)
}

// Create creates a new reminder
func (r *ReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	reminder.ID = primitive.NewObjectID()
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()

	_, err := r.client.Collection(remindersCollection).InsertOne(ctx, reminder)
	return err
}

// FindByID finds a reminder by ID with org isolation
func (r *ReminderRepository) FindByID(ctx context.Context, id string, orgID string) (*domain.Reminder, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var reminder domain.Reminder
	filter := bson.M{"_id": objectID, "orgId": orgID}
	err = r.client.Collection(remindersCollection).FindOne(ctx, filter).Decode(&reminder)
	if err != nil {
		return nil, err
	}

	return &reminder, nil
}

// FindDue finds all active reminders whose next run date has elapsed
func (r *ReminderRepository) FindDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	filter := bson.M{
		"status":      domain.ReminderStatusActive,
		"nextRunDate": bson.M{"$lte": now},
	}

	cursor, err := r.client.Collection(remindersCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []*domain.Reminder
	if err = cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}

	return reminders, nil
}

// ExistsActive reports whether an active reminder of the given type already
// exists for a leaseholder. This backs the at-most-one-active-instance guard
// of the overdue-rent pass.
func (r *ReminderRepository) ExistsActive(ctx context.Context, leaseholderID primitive.ObjectID, reminderType domain.ReminderType) (bool, error) {
	filter := bson.M{
		"leaseholderId": leaseholderID,
		"type":          reminderType,
		"status":        domain.ReminderStatusActive,
	}

	err := r.client.Collection(remindersCollection).FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindByOrgID finds reminders by org ID with pagination
func (r *ReminderRepository) FindByOrgID(ctx context.Context, orgID string, status domain.ReminderStatus, reminderType domain.ReminderType, page, pageSize int) ([]*domain.Reminder, int64, error) {
	filter := bson.M{"orgId": orgID}

	if status != "" {
		filter["status"] = status
	}
	if reminderType != "" {
		filter["type"] = reminderType
	}

	total, err := r.client.Collection(remindersCollection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * pageSize
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(pageSize)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.client.Collection(remindersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reminders []*domain.Reminder
	if err = cursor.All(ctx, &reminders); err != nil {
		return nil, 0, err
	}

	return reminders, total, nil
}

// Save persists the mutated reminder
func (r *ReminderRepository) Save(ctx context.Context, reminder *domain.Reminder) error {
	reminder.UpdatedAt = time.Now()

	filter := bson.M{"_id": reminder.ID}
	update := bson.M{"$set": reminder}

	_, err := r.client.Collection(remindersCollection).UpdateOne(ctx, filter, update)
	return err
}

// UpdateStatus applies a manual status transition with org isolation
func (r *ReminderRepository) UpdateStatus(ctx context.Context, id string, orgID string, status domain.ReminderStatus) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": objectID, "orgId": orgID}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.client.Collection(remindersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete deletes a reminder with org isolation
func (r *ReminderRepository) Delete(ctx context.Context, id string, orgID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.client.Collection(remindersCollection).DeleteOne(ctx, bson.M{"_id": objectID, "orgId": orgID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
