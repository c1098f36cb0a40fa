// Package automation implements the daily due-item processing tick: overdue
// rent detection, lease expiry warnings, reminder firing and occupancy
// recomputation.
package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/vhvplatform/go-property-automation/internal/domain"
	"github.com/vhvplatform/go-property-automation/internal/metrics"
	"github.com/vhvplatform/go-property-automation/internal/recurrence"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeaseholderStore reads and writes lease-bearing occupants
type LeaseholderStore interface {
	FindByStatus(ctx context.Context, status domain.LeaseholderStatus) ([]*domain.Leaseholder, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Leaseholder, error)
	Save(ctx context.Context, leaseholder *domain.Leaseholder) error
	CountOccupying(ctx context.Context, propertyID primitive.ObjectID) (int64, error)
}

// PaymentStore reads payment records
type PaymentStore interface {
	FindLatestPaid(ctx context.Context, leaseholderID primitive.ObjectID) (*domain.Payment, error)
}

// PropertyStore reads and writes properties
type PropertyStore interface {
	FindAll(ctx context.Context) ([]*domain.Property, error)
	Save(ctx context.Context, property *domain.Property) error
}

// ReminderStore reads and writes reminders
type ReminderStore interface {
	FindDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error)
	ExistsActive(ctx context.Context, leaseholderID primitive.ObjectID, reminderType domain.ReminderType) (bool, error)
	Create(ctx context.Context, reminder *domain.Reminder) error
	Save(ctx context.Context, reminder *domain.Reminder) error
}

// Notifier is the notification-creation collaborator. It never fails from the
// caller's point of view; a nil return means creation was swallowed and logged.
type Notifier interface {
	Notify(ctx context.Context, event *domain.NotificationEvent) *domain.Notification
}

// Config holds the processor thresholds
type Config struct {
	// OverdueGraceDays is the paid-payment gap after which a leaseholder is Late
	OverdueGraceDays int
	// LeaseExpiryWindowDays is the look-ahead window for expiry warnings
	LeaseExpiryWindowDays int
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		OverdueGraceDays:      30,
		LeaseExpiryWindowDays: 30,
	}
}

// Processor runs the four automation sub-passes once per tick
type Processor struct {
	cfg          Config
	leaseholders LeaseholderStore
	payments     PaymentStore
	properties   PropertyStore
	reminders    ReminderStore
	notifier     Notifier
	log          *logger.Logger
}

// NewProcessor creates a new due-item processor
func NewProcessor(cfg Config, leaseholders LeaseholderStore, payments PaymentStore, properties PropertyStore, reminders ReminderStore, notifier Notifier, log *logger.Logger) *Processor {
	if cfg.OverdueGraceDays <= 0 {
		cfg.OverdueGraceDays = DefaultConfig().OverdueGraceDays
	}
	if cfg.LeaseExpiryWindowDays <= 0 {
		cfg.LeaseExpiryWindowDays = DefaultConfig().LeaseExpiryWindowDays
	}

	return &Processor{
		cfg:          cfg,
		leaseholders: leaseholders,
		payments:     payments,
		properties:   properties,
		reminders:    reminders,
		notifier:     notifier,
		log:          log,
	}
}

// RunTick executes one full automation pass at the given reference instant.
// The four sub-passes run in a fixed sequence; a sub-pass failure aborts the
// remainder of the tick. Per-item failures inside a pass are isolated.
func (p *Processor) RunTick(ctx context.Context, now time.Time) error {
	start := time.Now()
	p.log.Info("Automation tick started", "now", now.Format(time.RFC3339))

	if err := p.runOverdueRentPass(ctx, now); err != nil {
		metrics.PassFailures.WithLabelValues("overdue_rent").Inc()
		return fmt.Errorf("overdue-rent pass: %w", err)
	}
	if err := p.runLeaseExpiryPass(ctx, now); err != nil {
		metrics.PassFailures.WithLabelValues("lease_expiry").Inc()
		return fmt.Errorf("lease-expiry pass: %w", err)
	}
	if err := p.runReminderPass(ctx, now); err != nil {
		metrics.PassFailures.WithLabelValues("reminders").Inc()
		return fmt.Errorf("reminder pass: %w", err)
	}
	if err := p.runOccupancyPass(ctx); err != nil {
		metrics.PassFailures.WithLabelValues("occupancy").Inc()
		return fmt.Errorf("occupancy pass: %w", err)
	}

	metrics.TickDuration.Observe(time.Since(start).Seconds())
	p.log.Info("Automation tick completed", "duration", time.Since(start).String())
	return nil
}

// runOverdueRentPass flags Active leaseholders whose last Paid payment is more
// than the grace period in the past, notifies, and auto-creates a weekly
// overdue reminder guarded by an at-most-one-active-instance check.
func (p *Processor) runOverdueRentPass(ctx context.Context, now time.Time) error {
	active, err := p.leaseholders.FindByStatus(ctx, domain.LeaseholderStatusActive)
	if err != nil {
		return err
	}

	for _, lh := range active {
		if err := p.processOverdueLeaseholder(ctx, lh, now); err != nil {
			metrics.ItemFailures.WithLabelValues("overdue_rent").Inc()
			p.log.Error("Failed to process leaseholder for overdue rent", "error", err, "id", lh.ID.Hex())
		}
	}
	return nil
}

func (p *Processor) processOverdueLeaseholder(ctx context.Context, lh *domain.Leaseholder, now time.Time) error {
	payment, err := p.payments.FindLatestPaid(ctx, lh.ID)
	if err != nil {
		return err
	}

	var daysSincePayment int
	if payment != nil {
		daysSincePayment = wholeDays(payment.PaymentDate, now)
	} else {
		// No paid payment on record: indefinitely overdue. The magnitude is
		// measured from when the leaseholder was taken on.
		daysSincePayment = wholeDays(lh.CreatedAt, now)
		if daysSincePayment <= p.cfg.OverdueGraceDays {
			daysSincePayment = p.cfg.OverdueGraceDays + 1
		}
	}

	if daysSincePayment <= p.cfg.OverdueGraceDays {
		return nil
	}
	daysOverdue := daysSincePayment - p.cfg.OverdueGraceDays

	lh.Status = domain.LeaseholderStatusLate
	if err := p.leaseholders.Save(ctx, lh); err != nil {
		return err
	}
	metrics.LeaseholdersMarkedLate.WithLabelValues(lh.OrgID).Inc()
	p.log.Info("Leaseholder flagged Late", "id", lh.ID.Hex(), "days_overdue", daysOverdue)

	p.notifier.Notify(ctx, &domain.NotificationEvent{
		UserID:  lh.CreatedBy,
		OrgID:   lh.OrgID,
		Type:    domain.NotificationTypeError,
		Title:   "Rent Payment Overdue",
		Message: fmt.Sprintf("%s's rent is %d days overdue", lh.Name, daysOverdue),
		Link:    "/dashboard/leaseholders",
	})

	exists, err := p.reminders.ExistsActive(ctx, lh.ID, domain.ReminderTypePaymentOverdue)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	leaseholderID := lh.ID
	propertyID := lh.PropertyID
	reminder := &domain.Reminder{
		OrgID:         lh.OrgID,
		Type:          domain.ReminderTypePaymentOverdue,
		Title:         "Rent overdue",
		Message:       fmt.Sprintf("Rent payment overdue for %s", lh.Name),
		Frequency:     domain.FrequencyWeekly,
		TriggerDate:   now,
		NextRunDate:   now,
		Status:        domain.ReminderStatusActive,
		PropertyID:    &propertyID,
		LeaseholderID: &leaseholderID,
		Recipients:    domain.Recipients{Leaseholders: true, Landlords: true},
		Channels:      domain.Channels{Email: true, InApp: true},
	}
	if err := p.reminders.Create(ctx, reminder); err != nil {
		return err
	}
	metrics.RemindersAutoCreated.Inc()
	return nil
}

// runLeaseExpiryPass warns about Active leaseholders whose lease ends within
// the look-ahead window. There is deliberately no dedup guard: a leaseholder
// inside the window is warned once per tick until the window closes or the
// lease rolls over.
func (p *Processor) runLeaseExpiryPass(ctx context.Context, now time.Time) error {
	active, err := p.leaseholders.FindByStatus(ctx, domain.LeaseholderStatusActive)
	if err != nil {
		return err
	}

	windowEnd := now.AddDate(0, 0, p.cfg.LeaseExpiryWindowDays)
	for _, lh := range active {
		if lh.LeaseEndDate.Before(now) || lh.LeaseEndDate.After(windowEnd) {
			continue
		}

		daysLeft := wholeDays(now, lh.LeaseEndDate)
		p.notifier.Notify(ctx, &domain.NotificationEvent{
			UserID:  lh.CreatedBy,
			OrgID:   lh.OrgID,
			Type:    domain.NotificationTypeWarning,
			Title:   "Lease Expiring Soon",
			Message: fmt.Sprintf("%s's lease expires in %d days", lh.Name, daysLeft),
			Link:    "/dashboard/leaseholders",
		})
	}
	return nil
}

// runReminderPass fires every due active reminder and advances its schedule.
// A failure on one reminder is logged and does not abort the pass.
func (p *Processor) runReminderPass(ctx context.Context, now time.Time) error {
	due, err := p.reminders.FindDue(ctx, now)
	if err != nil {
		return err
	}

	for _, reminder := range due {
		if err := p.processReminder(ctx, reminder, now); err != nil {
			metrics.ItemFailures.WithLabelValues("reminders").Inc()
			p.log.Error("Failed to process reminder", "error", err, "id", reminder.ID.Hex(), "type", reminder.Type)
		}
	}
	return nil
}

func (p *Processor) processReminder(ctx context.Context, reminder *domain.Reminder, now time.Time) error {
	if err := p.fireReminder(ctx, reminder, now); err != nil {
		return err
	}

	reminder.ExecutionCount++
	runAt := now
	reminder.LastRunDate = &runAt

	next, recurs := recurrence.NextRun(reminder.Frequency, now)
	switch {
	case !recurs:
		reminder.Status = domain.ReminderStatusCompleted
	case reminder.MaxExecutions > 0 && reminder.ExecutionCount >= reminder.MaxExecutions:
		reminder.Status = domain.ReminderStatusCompleted
		reminder.NextRunDate = next
	default:
		reminder.NextRunDate = next
	}

	if err := p.reminders.Save(ctx, reminder); err != nil {
		return err
	}

	metrics.RemindersFired.WithLabelValues(string(reminder.Type)).Inc()
	return nil
}

// fireReminder performs the reminder's domain action
func (p *Processor) fireReminder(ctx context.Context, reminder *domain.Reminder, now time.Time) error {
	switch reminder.Type {
	case domain.ReminderTypeRentDue, domain.ReminderTypePaymentOverdue:
		lh, err := p.linkedLeaseholder(ctx, reminder)
		if err != nil {
			return err
		}
		name := "A leaseholder"
		userID := ""
		if lh != nil {
			name = lh.Name
			userID = lh.CreatedBy
		}
		p.notifier.Notify(ctx, &domain.NotificationEvent{
			UserID:  userID,
			OrgID:   reminder.OrgID,
			Type:    domain.NotificationTypeError,
			Title:   "Rent Payment Overdue",
			Message: fmt.Sprintf("Rent payment overdue for %s", name),
			Link:    "/dashboard/leaseholders",
		})

	case domain.ReminderTypeLeaseExpiry:
		lh, err := p.linkedLeaseholder(ctx, reminder)
		if err != nil {
			return err
		}
		message := reminder.Message
		userID := ""
		if lh != nil {
			userID = lh.CreatedBy
			message = fmt.Sprintf("%s's lease expires in %d days", lh.Name, wholeDays(now, lh.LeaseEndDate))
		}
		p.notifier.Notify(ctx, &domain.NotificationEvent{
			UserID:  userID,
			OrgID:   reminder.OrgID,
			Type:    domain.NotificationTypeWarning,
			Title:   "Lease Expiry",
			Message: message,
			Link:    "/dashboard/leaseholders",
		})

	case domain.ReminderTypeMaintenanceDue, domain.ReminderTypeInspectionDue:
		p.notifier.Notify(ctx, &domain.NotificationEvent{
			OrgID:   reminder.OrgID,
			Type:    domain.NotificationTypeMaintenance,
			Title:   reminder.Title,
			Message: reminder.Message,
			Link:    "/dashboard/maintenance",
		})

	case domain.ReminderTypeCustom:
		p.notifier.Notify(ctx, &domain.NotificationEvent{
			OrgID:   reminder.OrgID,
			Type:    domain.NotificationTypeInfo,
			Title:   reminder.Title,
			Message: reminder.Message,
		})
	}
	return nil
}

// linkedLeaseholder resolves the reminder's linked leaseholder, if any
func (p *Processor) linkedLeaseholder(ctx context.Context, reminder *domain.Reminder) (*domain.Leaseholder, error) {
	if reminder.LeaseholderID == nil {
		return nil, nil
	}
	return p.leaseholders.FindByID(ctx, *reminder.LeaseholderID)
}

// runOccupancyPass recomputes the occupancy rate for every property
func (p *Processor) runOccupancyPass(ctx context.Context) error {
	properties, err := p.properties.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, property := range properties {
		if err := p.recomputeOccupancy(ctx, property); err != nil {
			metrics.ItemFailures.WithLabelValues("occupancy").Inc()
			p.log.Error("Failed to recompute occupancy", "error", err, "id", property.ID.Hex())
		}
	}
	return nil
}

func (p *Processor) recomputeOccupancy(ctx context.Context, property *domain.Property) error {
	occupied, err := p.leaseholders.CountOccupying(ctx, property.ID)
	if err != nil {
		return err
	}

	rate := 0.0
	if property.NumberOfUnits > 0 {
		rate = float64(occupied) / float64(property.NumberOfUnits) * 100
	}

	property.OccupancyRate = rate
	return p.properties.Save(ctx, property)
}

// wholeDays returns the number of whole days from an earlier instant to a
// later one. Negative when to precedes from.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
