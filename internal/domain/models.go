package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderType classifies what a reminder is about
type ReminderType string

const (
	ReminderTypeRentDue        ReminderType = "rent_due"
	ReminderTypeLeaseExpiry    ReminderType = "lease_expiry"
	ReminderTypeMaintenanceDue ReminderType = "maintenance_due"
	ReminderTypeInspectionDue  ReminderType = "inspection_due"
	ReminderTypePaymentOverdue ReminderType = "payment_overdue"
	ReminderTypeCustom         ReminderType = "custom"
)

// Frequency represents how often a reminder recurs
type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// ReminderStatus represents the lifecycle state of a reminder
type ReminderStatus string

const (
	ReminderStatusActive    ReminderStatus = "active"
	ReminderStatusPaused    ReminderStatus = "paused"
	ReminderStatusCompleted ReminderStatus = "completed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// Recipients selects which audiences a reminder is delivered to.
// Consumed by the external delivery system, not by the automation core.
type Recipients struct {
	Leaseholders    bool     `json:"leaseholders" bson:"leaseholders"`
	Landlords       bool     `json:"landlords" bson:"landlords"`
	Agents          bool     `json:"agents" bson:"agents"`
	CustomAddresses []string `json:"customAddresses,omitempty" bson:"customAddresses,omitempty"`
}

// Channels selects the delivery channels for a reminder.
// Consumed by the external delivery system, not by the automation core.
type Channels struct {
	Email    bool `json:"email" bson:"email"`
	SMS      bool `json:"sms" bson:"sms"`
	WhatsApp bool `json:"whatsapp" bson:"whatsapp"`
	InApp    bool `json:"inApp" bson:"inApp"`
}

// Reminder is a recurring or one-shot scheduled action record
type Reminder struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	OrgID          string              `json:"orgId" bson:"orgId"`
	Type           ReminderType        `json:"type" bson:"type"`
	Title          string              `json:"title" bson:"title"`
	Message        string              `json:"message,omitempty" bson:"message,omitempty"`
	Frequency      Frequency           `json:"frequency" bson:"frequency"`
	TriggerDate    time.Time           `json:"triggerDate" bson:"triggerDate"`
	NextRunDate    time.Time           `json:"nextRunDate" bson:"nextRunDate"`
	LastRunDate    *time.Time          `json:"lastRunDate,omitempty" bson:"lastRunDate,omitempty"`
	Status         ReminderStatus      `json:"status" bson:"status"`
	ExecutionCount int                 `json:"executionCount" bson:"executionCount"`
	MaxExecutions  int                 `json:"maxExecutions,omitempty" bson:"maxExecutions,omitempty"` // 0 = unlimited
	PropertyID     *primitive.ObjectID `json:"propertyId,omitempty" bson:"propertyId,omitempty"`
	LeaseholderID  *primitive.ObjectID `json:"leaseholderId,omitempty" bson:"leaseholderId,omitempty"`
	Recipients     Recipients          `json:"recipients" bson:"recipients"`
	Channels       Channels            `json:"channels" bson:"channels"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// LeaseholderStatus represents the occupancy state of a leaseholder
type LeaseholderStatus string

const (
	LeaseholderStatusPending LeaseholderStatus = "Pending"
	LeaseholderStatusActive  LeaseholderStatus = "Active"
	LeaseholderStatusLate    LeaseholderStatus = "Late"
	LeaseholderStatusEnded   LeaseholderStatus = "Ended"
)

// Occupying reports whether the leaseholder currently counts toward occupancy
func (s LeaseholderStatus) Occupying() bool {
	return s == LeaseholderStatusActive || s == LeaseholderStatusLate
}

// Leaseholder is a lease-bearing occupant of a property unit
type Leaseholder struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrgID        string             `json:"orgId" bson:"orgId"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	Status       LeaseholderStatus  `json:"status" bson:"status"`
	PropertyID   primitive.ObjectID `json:"propertyId" bson:"propertyId"`
	UnitNumber   string             `json:"unitNumber,omitempty" bson:"unitNumber,omitempty"`
	RentAmount   float64            `json:"rentAmount" bson:"rentAmount"`
	LeaseEndDate time.Time          `json:"leaseEndDate" bson:"leaseEndDate"`
	CreatedBy    string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Property represents a managed property
type Property struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrgID         string             `json:"orgId" bson:"orgId"`
	Name          string             `json:"name" bson:"name"`
	Address       string             `json:"address,omitempty" bson:"address,omitempty"`
	NumberOfUnits int                `json:"numberOfUnits" bson:"numberOfUnits"`
	OccupancyRate float64            `json:"occupancyRate" bson:"occupancyRate"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PaymentStatus represents the settlement state of a payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// Payment is a rent payment record. Read-only to the automation core.
type Payment struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrgID         string             `json:"orgId" bson:"orgId"`
	LeaseholderID primitive.ObjectID `json:"leaseholderId" bson:"leaseholderId"`
	PropertyID    primitive.ObjectID `json:"propertyId" bson:"propertyId"`
	Amount        float64            `json:"amount" bson:"amount"`
	Status        PaymentStatus      `json:"status" bson:"status"`
	PaymentDate   time.Time          `json:"paymentDate" bson:"paymentDate"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// NotificationType represents the severity/category of a notification
type NotificationType string

const (
	NotificationTypeInfo        NotificationType = "info"
	NotificationTypeSuccess     NotificationType = "success"
	NotificationTypeWarning     NotificationType = "warning"
	NotificationTypeError       NotificationType = "error"
	NotificationTypePayment     NotificationType = "payment"
	NotificationTypeMaintenance NotificationType = "maintenance"
	NotificationTypeSystem      NotificationType = "system"
)

// Notification is an in-app notification record created by the automation core
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrgID     string             `json:"orgId" bson:"orgId"`
	UserID    string             `json:"userId" bson:"userId"`
	Type      NotificationType   `json:"type" bson:"type"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Link      string             `json:"link,omitempty" bson:"link,omitempty"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
