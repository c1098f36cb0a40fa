package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TickRuns tracks the total number of automation ticks by outcome
	TickRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_automation_tick_runs_total",
			Help: "Total number of automation ticks",
		},
		[]string{"outcome"}, // completed, failed, skipped
	)

	// TickDuration tracks how long a full tick takes
	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "property_automation_tick_duration_seconds",
			Help:    "Automation tick duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PassFailures tracks sub-pass level failures that abort a tick
	PassFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_automation_pass_failures_total",
			Help: "Total number of sub-pass failures",
		},
		[]string{"pass"}, // overdue_rent, lease_expiry, reminders, occupancy
	)

	// ItemFailures tracks per-item failures that were isolated and skipped
	ItemFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_automation_item_failures_total",
			Help: "Total number of isolated per-item processing failures",
		},
		[]string{"pass"},
	)

	// NotificationsCreated tracks notification records created by the core
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_automation_notifications_created_total",
			Help: "Total number of notification records created",
		},
		[]string{"type", "org_id"},
	)

	// NotificationFailures tracks swallowed notification-creation failures
	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_automation_notification_failures_total",
			Help: "Total number of notification creation failures (swallowed)",
		},
		[]string{"org_id"},
	)

	// LeaseholdersMarkedLate tracks Active to Late transitions
	LeaseholdersMarkedLate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_automation_leaseholders_marked_late_total",
			Help: "Total number of leaseholders flagged Late for overdue rent",
		},
		[]string{"org_id"},
	)

	// RemindersFired tracks reminders processed by the reminder pass
	RemindersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_automation_reminders_fired_total",
			Help: "Total number of reminders fired",
		},
		[]string{"type"},
	)

	// RemindersAutoCreated tracks reminders created by the overdue-rent pass
	RemindersAutoCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "property_automation_reminders_auto_created_total",
			Help: "Total number of overdue-rent reminders auto-created",
		},
	)

	// RateLimitExceeded tracks rate limit violations
	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_automation_rate_limit_exceeded_total",
			Help: "Total number of rate limit exceeded events",
		},
		[]string{"org_id"},
	)

	// ConsumerRestarts tracks payment event consumer restart events
	ConsumerRestarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "property_automation_consumer_restarts_total",
			Help: "Total number of payment event consumer restarts",
		},
	)
)
