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

const notificationsCollection = "notifications"

// NotificationRepository handles notification data operations
type NotificationRepository struct {
	client *mongodb.MongoClient
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(client *mongodb.MongoClient) *NotificationRepository {
	return &NotificationRepository{client: client}
}

// EnsureIndexes creates necessary indexes for optimal query performance
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "orgId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("org_created_idx"),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "read", Value: 1},
			},
			Options: options.Index().SetName("user_read_idx"),
		},
	}

	return r.client.CreateIndexes(ctx, notificationsCollection, indexes)
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	_, err := r.client.Collection(notificationsCollection).InsertOne(ctx, notification)
	return err
}

// FindByOrgID finds notifications by org ID with pagination
func (r *NotificationRepository) FindByOrgID(ctx context.Context, orgID string, userID string, notificationType domain.NotificationType, page, pageSize int) ([]*domain.Notification, int64, error) {
	filter := bson.M{"orgId": orgID}

	if userID != "" {
		filter["userId"] = userID
	}
	if notificationType != "" {
		filter["type"] = notificationType
	}

	total, err := r.client.Collection(notificationsCollection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * pageSize
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(pageSize)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.client.Collection(notificationsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []*domain.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkRead marks a notification as read with org isolation
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, orgID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": objectID, "orgId": orgID}
	update := bson.M{
		"$set": bson.M{
			"read":      true,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.client.Collection(notificationsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
