package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vhvplatform/go-property-automation/internal/automation"
	"github.com/vhvplatform/go-property-automation/internal/domain"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
	"github.com/vhvplatform/go-property-automation/internal/shared/rabbitmq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	paymentsExchange   = "payments"
	paymentsQueue      = "property_automation_payments"
	paymentsRoutingKey = "payment.recorded"
	consumerTag        = "property-automation"
)

// PaymentConsumer reacts to recorded payments: a Late leaseholder whose rent
// comes in is restored to Active without waiting for the next daily tick, and
// a payment receipt notification is created.
type PaymentConsumer struct {
	client       *rabbitmq.RabbitMQClient
	leaseholders automation.LeaseholderStore
	notifier     automation.Notifier
	log          *logger.Logger
}

// NewPaymentConsumer creates a new payment event consumer
func NewPaymentConsumer(client *rabbitmq.RabbitMQClient, leaseholders automation.LeaseholderStore, notifier automation.Notifier, log *logger.Logger) *PaymentConsumer {
	return &PaymentConsumer{
		client:       client,
		leaseholders: leaseholders,
		notifier:     notifier,
		log:          log,
	}
}

// Start declares the topology and consumes until the channel closes
func (c *PaymentConsumer) Start() error {
	c.log.Info("Starting payment event consumer", "queue", paymentsQueue)

	if err := c.client.DeclareExchange(paymentsExchange, "topic"); err != nil {
		return err
	}
	if err := c.client.DeclareQueue(paymentsQueue); err != nil {
		return err
	}
	if err := c.client.BindQueue(paymentsQueue, paymentsRoutingKey, paymentsExchange); err != nil {
		return err
	}

	messages, err := c.client.Consume(paymentsQueue, consumerTag)
	if err != nil {
		return err
	}

	for msg := range messages {
		var event domain.PaymentRecordedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			c.log.Error("Failed to unmarshal payment event", "error", err)
			msg.Nack(false, false) // Don't requeue invalid messages
			continue
		}

		if err := c.handlePaymentRecorded(context.Background(), &event); err != nil {
			c.log.Error("Failed to process payment event", "error", err, "event_id", event.EventID)
			msg.Nack(false, true) // Requeue for retry
			continue
		}

		msg.Ack(false)
	}

	return nil
}

func (c *PaymentConsumer) handlePaymentRecorded(ctx context.Context, event *domain.PaymentRecordedEvent) error {
	if event.Status != string(domain.PaymentStatusPaid) {
		return nil
	}

	leaseholderID, err := primitive.ObjectIDFromHex(event.LeaseholderID)
	if err != nil {
		return fmt.Errorf("invalid leaseholder id %q: %w", event.LeaseholderID, err)
	}

	lh, err := c.leaseholders.FindByID(ctx, leaseholderID)
	if err != nil {
		return err
	}

	if lh.Status == domain.LeaseholderStatusLate {
		lh.Status = domain.LeaseholderStatusActive
		if err := c.leaseholders.Save(ctx, lh); err != nil {
			return err
		}
		c.log.Info("Leaseholder restored to Active after payment", "id", lh.ID.Hex())
	}

	c.notifier.Notify(ctx, &domain.NotificationEvent{
		UserID:  lh.CreatedBy,
		OrgID:   lh.OrgID,
		Type:    domain.NotificationTypePayment,
		Title:   "Payment Received",
		Message: fmt.Sprintf("Payment of %.2f received from %s", event.Amount, lh.Name),
		Link:    "/dashboard/payments",
	})

	return nil
}
