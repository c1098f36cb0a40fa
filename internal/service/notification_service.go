package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vhvplatform/go-property-automation/internal/domain"
	"github.com/vhvplatform/go-property-automation/internal/metrics"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
)

const (
	notificationExchange   = "notifications"
	notificationRoutingKey = "notification.created"
)

// NotificationStore persists notification records
type NotificationStore interface {
	Create(ctx context.Context, notification *domain.Notification) error
}

// EventPublisher publishes domain events to the message broker
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// NotificationCreatedEvent is fanned out for every created notification so the
// delivery system (email/SMS/WhatsApp) can pick it up.
type NotificationCreatedEvent struct {
	EventID        string                  `json:"event_id"`
	NotificationID string                  `json:"notification_id"`
	OrgID          string                  `json:"org_id"`
	UserID         string                  `json:"user_id"`
	Type           domain.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Link           string                  `json:"link,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

// NotificationService creates notification records and fans them out.
//
// Notify never returns an error: callers must not depend on notification
// delivery succeeding, so every failure is logged and counted instead of
// propagated.
type NotificationService struct {
	store     NotificationStore
	publisher EventPublisher
	log       *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(store NotificationStore, publisher EventPublisher, log *logger.Logger) *NotificationService {
	return &NotificationService{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// Notify creates a notification record for the event and returns it,
// or nil when creation failed.
func (s *NotificationService) Notify(ctx context.Context, event *domain.NotificationEvent) *domain.Notification {
	notification := &domain.Notification{
		OrgID:   event.OrgID,
		UserID:  event.UserID,
		Type:    event.Type,
		Title:   event.Title,
		Message: event.Message,
		Link:    event.Link,
	}

	if err := s.store.Create(ctx, notification); err != nil {
		s.log.Error("Failed to create notification", "error", err, "org_id", event.OrgID, "title", event.Title)
		metrics.NotificationFailures.WithLabelValues(event.OrgID).Inc()
		return nil
	}

	metrics.NotificationsCreated.WithLabelValues(string(event.Type), event.OrgID).Inc()
	s.publishCreated(notification)

	return notification
}

// publishCreated fans the created notification out to the broker, best effort
func (s *NotificationService) publishCreated(notification *domain.Notification) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(&NotificationCreatedEvent{
		EventID:        uuid.NewString(),
		NotificationID: notification.ID.Hex(),
		OrgID:          notification.OrgID,
		UserID:         notification.UserID,
		Type:           notification.Type,
		Title:          notification.Title,
		Message:        notification.Message,
		Link:           notification.Link,
		CreatedAt:      notification.CreatedAt,
	})
	if err != nil {
		s.log.Error("Failed to marshal notification event", "error", err, "id", notification.ID.Hex())
		return
	}

	if err := s.publisher.Publish(notificationExchange, notificationRoutingKey, body); err != nil {
		s.log.Error("Failed to publish notification event", "error", err, "id", notification.ID.Hex())
	}
}
