package repository

import (
	"context"

	"github.com/vhvplatform/go-property-automation/internal/domain"
	"github.com/vhvplatform/go-property-automation/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const paymentsCollection = "payments"

// PaymentRepository handles payment data operations.
// The automation core only reads payments; writes belong to the billing service.
type PaymentRepository struct {
	client *mongodb.MongoClient
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(client *mongodb.MongoClient) *PaymentRepository {
	return &PaymentRepository{client: client}
}

// EnsureIndexes creates necessary indexes for optimal query performance
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "leaseholderId", Value: 1},
				{Key: "status", Value: 1},
				{Key: "paymentDate", Value: -1},
			},
			Options: options.Index().SetName("leaseholder_paid_idx"),
		},
	}

	return r.client.CreateIndexes(ctx, paymentsCollection, indexes)
}

// FindLatestPaid returns the most recent Paid payment for a leaseholder,
// or nil when none exists.
func (r *PaymentRepository) FindLatestPaid(ctx context.Context, leaseholderID primitive.ObjectID) (*domain.Payment, error) {
	filter := bson.M{
		"leaseholderId": leaseholderID,
		"status":        domain.PaymentStatusPaid,
	}
	opts := options.FindOne().SetSort(bson.M{"paymentDate": -1})

	var payment domain.Payment
	err := r.client.Collection(paymentsCollection).FindOne(ctx, filter, opts).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}
