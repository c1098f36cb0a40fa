package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vhvplatform/go-property-automation/internal/metrics"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
)

// TickRunner is the automation entry point invoked once per schedule firing
type TickRunner interface {
	RunTick(ctx context.Context, now time.Time) error
}

// AutomationScheduler triggers the daily automation tick.
//
// A tick that is still running when the next trigger fires is not queued or
// overlapped: the trigger is skipped and counted. The processor mutates
// documents without optimistic concurrency checks, so single-flight execution
// is the correctness guard here.
type AutomationScheduler struct {
	cron     *cron.Cron
	runner   TickRunner
	log      *logger.Logger
	schedule string
	clock    func() time.Time
	inFlight atomic.Bool
}

// NewAutomationScheduler creates a new automation scheduler
func NewAutomationScheduler(runner TickRunner, schedule string, log *logger.Logger) *AutomationScheduler {
	return &AutomationScheduler{
		cron:     cron.New(),
		runner:   runner,
		log:      log,
		schedule: schedule,
		clock:    time.Now,
	}
}

// WithClock overrides the clock used to stamp each tick. Used by tests.
func (s *AutomationScheduler) WithClock(clock func() time.Time) *AutomationScheduler {
	s.clock = clock
	return s
}

// Start registers the cron schedule and starts the trigger
func (s *AutomationScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.Trigger); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Automation scheduler started", "schedule", s.schedule)
	return nil
}

// Stop stops the trigger. A tick already in flight runs to completion.
func (s *AutomationScheduler) Stop() {
	s.log.Info("Stopping automation scheduler")
	s.cron.Stop()
}

// Trigger runs one tick unless a previous tick is still in flight
func (s *AutomationScheduler) Trigger() {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Warn("Previous automation tick still running, skipping trigger")
		metrics.TickRuns.WithLabelValues("skipped").Inc()
		return
	}
	defer s.inFlight.Store(false)

	now := s.clock()
	if err := s.runner.RunTick(context.Background(), now); err != nil {
		// Nothing is retried until the next scheduled trigger.
		s.log.Error("Automation tick failed", "error", err, "now", now.Format(time.RFC3339))
		metrics.TickRuns.WithLabelValues("failed").Inc()
		return
	}

	metrics.TickRuns.WithLabelValues("completed").Inc()
}
