package domain

import "time"

// CreateReminderRequest represents a request to create a reminder
type CreateReminderRequest struct {
	Type          ReminderType `json:"type" binding:"required"`
	Title         string       `json:"title" binding:"required"`
	Message       string       `json:"message"`
	Frequency     Frequency    `json:"frequency" binding:"required"`
	TriggerDate   time.Time    `json:"trigger_date" binding:"required"`
	MaxExecutions int          `json:"max_executions"`
	PropertyID    string       `json:"property_id"`
	LeaseholderID string       `json:"leaseholder_id"`
	Recipients    Recipients   `json:"recipients"`
	Channels      Channels     `json:"channels"`
}

// UpdateReminderStatusRequest represents a manual status transition
type UpdateReminderStatusRequest struct {
	Status ReminderStatus `json:"status" binding:"required"`
}

// GetRemindersRequest represents a request to list reminders
type GetRemindersRequest struct {
	Status   ReminderStatus `form:"status"`
	Type     ReminderType   `form:"type"`
	Page     int            `form:"page"`
	PageSize int            `form:"page_size"`
}

// GetNotificationsRequest represents a request to list notifications
type GetNotificationsRequest struct {
	UserID   string           `form:"user_id"`
	Type     NotificationType `form:"type"`
	Page     int              `form:"page"`
	PageSize int              `form:"page_size"`
}

// NotificationEvent is the input to the notification-creation collaborator
type NotificationEvent struct {
	UserID  string           `json:"user_id"`
	OrgID   string           `json:"org_id"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Link    string           `json:"link,omitempty"`
}

// PaymentRecordedEvent is consumed from the payments exchange
type PaymentRecordedEvent struct {
	EventID       string    `json:"event_id"`
	OrgID         string    `json:"org_id"`
	LeaseholderID string    `json:"leaseholder_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"payment_date"`
	Timestamp     time.Time `json:"timestamp"`
}
