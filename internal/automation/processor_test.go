package automation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhvplatform/go-property-automation/internal/domain"
	"github.com/vhvplatform/go-property-automation/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ---- fakes ----

type fakeLeaseholderStore struct {
	items           []*domain.Leaseholder
	findByStatusErr error
	saveErr         map[primitive.ObjectID]error
	saved           []primitive.ObjectID
	occupying       map[primitive.ObjectID]int64
}

func (f *fakeLeaseholderStore) FindByStatus(_ context.Context, status domain.LeaseholderStatus) ([]*domain.Leaseholder, error) {
	if f.findByStatusErr != nil {
		return nil, f.findByStatusErr
	}
	var out []*domain.Leaseholder
	for _, lh := range f.items {
		if lh.Status == status {
			out = append(out, lh)
		}
	}
	return out, nil
}

func (f *fakeLeaseholderStore) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Leaseholder, error) {
	for _, lh := range f.items {
		if lh.ID == id {
			return lh, nil
		}
	}
	return nil, errors.New("leaseholder not found")
}

func (f *fakeLeaseholderStore) Save(_ context.Context, lh *domain.Leaseholder) error {
	if err := f.saveErr[lh.ID]; err != nil {
		return err
	}
	f.saved = append(f.saved, lh.ID)
	return nil
}

func (f *fakeLeaseholderStore) CountOccupying(_ context.Context, propertyID primitive.ObjectID) (int64, error) {
	return f.occupying[propertyID], nil
}

type fakePaymentStore struct {
	latest map[primitive.ObjectID]*domain.Payment
}

func (f *fakePaymentStore) FindLatestPaid(_ context.Context, leaseholderID primitive.ObjectID) (*domain.Payment, error) {
	return f.latest[leaseholderID], nil
}

type fakePropertyStore struct {
	items []*domain.Property
	saved []*domain.Property
}

func (f *fakePropertyStore) FindAll(_ context.Context) ([]*domain.Property, error) {
	return f.items, nil
}

func (f *fakePropertyStore) Save(_ context.Context, property *domain.Property) error {
	f.saved = append(f.saved, property)
	return nil
}

type fakeReminderStore struct {
	due          []*domain.Reminder
	created      []*domain.Reminder
	saved        []*domain.Reminder
	saveErrFor   map[primitive.ObjectID]error
	findDueCalls int
}

func (f *fakeReminderStore) FindDue(_ context.Context, _ time.Time) ([]*domain.Reminder, error) {
	f.findDueCalls++
	return f.due, nil
}

func (f *fakeReminderStore) ExistsActive(_ context.Context, leaseholderID primitive.ObjectID, reminderType domain.ReminderType) (bool, error) {
	for _, r := range f.created {
		if r.LeaseholderID != nil && *r.LeaseholderID == leaseholderID &&
			r.Type == reminderType && r.Status == domain.ReminderStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReminderStore) Create(_ context.Context, reminder *domain.Reminder) error {
	reminder.ID = primitive.NewObjectID()
	f.created = append(f.created, reminder)
	return nil
}

func (f *fakeReminderStore) Save(_ context.Context, reminder *domain.Reminder) error {
	if err := f.saveErrFor[reminder.ID]; err != nil {
		return err
	}
	f.saved = append(f.saved, reminder)
	return nil
}

type fakeNotifier struct {
	events []*domain.NotificationEvent
}

func (f *fakeNotifier) Notify(_ context.Context, event *domain.NotificationEvent) *domain.Notification {
	f.events = append(f.events, event)
	return &domain.Notification{}
}

// ---- fixtures ----

type fixture struct {
	leaseholders *fakeLeaseholderStore
	payments     *fakePaymentStore
	properties   *fakePropertyStore
	reminders    *fakeReminderStore
	notifier     *fakeNotifier
	processor    *Processor
}

func newFixture() *fixture {
	f := &fixture{
		leaseholders: &fakeLeaseholderStore{
			saveErr:   map[primitive.ObjectID]error{},
			occupying: map[primitive.ObjectID]int64{},
		},
		payments:   &fakePaymentStore{latest: map[primitive.ObjectID]*domain.Payment{}},
		properties: &fakePropertyStore{},
		reminders:  &fakeReminderStore{saveErrFor: map[primitive.ObjectID]error{}},
		notifier:   &fakeNotifier{},
	}
	f.processor = NewProcessor(DefaultConfig(), f.leaseholders, f.payments, f.properties, f.reminders, f.notifier, logger.NewLogger())
	return f
}

func (f *fixture) addLeaseholder(name string, status domain.LeaseholderStatus, lastPaidDaysAgo int, now time.Time) *domain.Leaseholder {
	lh := &domain.Leaseholder{
		ID:           primitive.NewObjectID(),
		OrgID:        "org-1",
		Name:         name,
		Status:       status,
		PropertyID:   primitive.NewObjectID(),
		LeaseEndDate: now.AddDate(1, 0, 0),
		CreatedBy:    "landlord-1",
		CreatedAt:    now.AddDate(-1, 0, 0),
	}
	f.leaseholders.items = append(f.leaseholders.items, lh)
	if lastPaidDaysAgo >= 0 {
		f.payments.latest[lh.ID] = &domain.Payment{
			LeaseholderID: lh.ID,
			Status:        domain.PaymentStatusPaid,
			PaymentDate:   now.AddDate(0, 0, -lastPaidDaysAgo),
		}
	}
	return lh
}

var tickTime = time.Date(2025, time.June, 10, 6, 0, 0, 0, time.UTC)

// ---- overdue-rent pass ----

func TestOverdueRentFlagsLateNotifiesAndCreatesReminder(t *testing.T) {
	f := newFixture()
	lh := f.addLeaseholder("Jane Doe", domain.LeaseholderStatusActive, 35, tickTime)

	err := f.processor.RunTick(context.Background(), tickTime)
	require.NoError(t, err)

	assert.Equal(t, domain.LeaseholderStatusLate, lh.Status)
	assert.Contains(t, f.leaseholders.saved, lh.ID)

	require.Len(t, f.notifier.events, 1)
	event := f.notifier.events[0]
	assert.Equal(t, domain.NotificationTypeError, event.Type)
	assert.Equal(t, "org-1", event.OrgID)
	assert.Equal(t, "landlord-1", event.UserID)
	assert.Contains(t, event.Message, "5 days overdue")

	require.Len(t, f.reminders.created, 1)
	created := f.reminders.created[0]
	assert.Equal(t, domain.ReminderTypePaymentOverdue, created.Type)
	assert.Equal(t, domain.FrequencyWeekly, created.Frequency)
	assert.Equal(t, domain.ReminderStatusActive, created.Status)
	assert.Equal(t, tickTime, created.NextRunDate)
	require.NotNil(t, created.LeaseholderID)
	assert.Equal(t, lh.ID, *created.LeaseholderID)
}

func TestOverdueRentThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		daysAgo  int
		wantLate bool
	}{
		{name: "exactly 30 days is not late", daysAgo: 30, wantLate: false},
		{name: "31 days is late", daysAgo: 31, wantLate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			lh := f.addLeaseholder("Jane Doe", domain.LeaseholderStatusActive, tt.daysAgo, tickTime)

			require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

			if tt.wantLate {
				assert.Equal(t, domain.LeaseholderStatusLate, lh.Status)
				assert.NotEmpty(t, f.notifier.events)
			} else {
				assert.Equal(t, domain.LeaseholderStatusActive, lh.Status)
				assert.Empty(t, f.notifier.events)
				assert.Empty(t, f.reminders.created)
			}
		})
	}
}

func TestOverdueRentNoPaymentIsIndefinitelyOverdue(t *testing.T) {
	f := newFixture()
	lh := f.addLeaseholder("Jane Doe", domain.LeaseholderStatusActive, -1, tickTime)

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

	assert.Equal(t, domain.LeaseholderStatusLate, lh.Status)
	require.Len(t, f.reminders.created, 1)
}

func TestOverdueRentReminderCreationIsIdempotent(t *testing.T) {
	f := newFixture()
	lh := f.addLeaseholder("Jane Doe", domain.LeaseholderStatusActive, 45, tickTime)

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))
	require.Len(t, f.reminders.created, 1)

	// The leaseholder is flagged again on a later tick; the active reminder
	// already exists so no second one may be created.
	lh.Status = domain.LeaseholderStatusActive
	require.NoError(t, f.processor.RunTick(context.Background(), tickTime.AddDate(0, 0, 1)))

	assert.Len(t, f.reminders.created, 1)
}

// ---- lease-expiry pass ----

func TestLeaseExpiryWindowBoundary(t *testing.T) {
	tests := []struct {
		name       string
		leaseEnd   time.Time
		wantNotify bool
		wantDays   int
	}{
		{name: "expires in 30 days is included", leaseEnd: tickTime.AddDate(0, 0, 30), wantNotify: true, wantDays: 30},
		{name: "expires in 31 days is excluded", leaseEnd: tickTime.AddDate(0, 0, 31), wantNotify: false},
		{name: "expires today is included", leaseEnd: tickTime, wantNotify: true, wantDays: 0},
		{name: "already expired is excluded", leaseEnd: tickTime.AddDate(0, 0, -1), wantNotify: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			lh := f.addLeaseholder("Jane Doe", domain.LeaseholderStatusActive, 5, tickTime)
			lh.LeaseEndDate = tt.leaseEnd

			require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

			if !tt.wantNotify {
				assert.Empty(t, f.notifier.events)
				return
			}
			require.Len(t, f.notifier.events, 1)
			event := f.notifier.events[0]
			assert.Equal(t, domain.NotificationTypeWarning, event.Type)
			assert.Contains(t, event.Message, fmt.Sprintf("expires in %d days", tt.wantDays))
		})
	}
}

func TestLeaseExpiryNotifiesEveryTick(t *testing.T) {
	f := newFixture()
	lh := f.addLeaseholder("Jane Doe", domain.LeaseholderStatusActive, 5, tickTime)
	lh.LeaseEndDate = tickTime.AddDate(0, 0, 14)

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))
	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

	// No dedup guard on this pass: one warning per tick inside the window.
	assert.Len(t, f.notifier.events, 2)
}

// ---- reminder pass ----

func newDueReminder(freq domain.Frequency) *domain.Reminder {
	return &domain.Reminder{
		ID:          primitive.NewObjectID(),
		OrgID:       "org-1",
		Type:        domain.ReminderTypeCustom,
		Title:       "Inspection paperwork",
		Message:     "File the quarterly inspection paperwork",
		Frequency:   freq,
		TriggerDate: tickTime.AddDate(0, 0, -7),
		NextRunDate: tickTime.AddDate(0, 0, -1),
		Status:      domain.ReminderStatusActive,
	}
}

func TestReminderAdvancement(t *testing.T) {
	f := newFixture()
	reminder := newDueReminder(domain.FrequencyWeekly)
	f.reminders.due = []*domain.Reminder{reminder}

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

	assert.Equal(t, 1, reminder.ExecutionCount)
	require.NotNil(t, reminder.LastRunDate)
	assert.Equal(t, tickTime, *reminder.LastRunDate)
	assert.Equal(t, tickTime.AddDate(0, 0, 7), reminder.NextRunDate)
	assert.Equal(t, domain.ReminderStatusActive, reminder.Status)
	assert.Len(t, f.reminders.saved, 1)
}

func TestReminderOnceTransitionsToCompleted(t *testing.T) {
	f := newFixture()
	reminder := newDueReminder(domain.FrequencyOnce)
	f.reminders.due = []*domain.Reminder{reminder}

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

	assert.Equal(t, 1, reminder.ExecutionCount)
	assert.Equal(t, domain.ReminderStatusCompleted, reminder.Status)
	assert.Len(t, f.notifier.events, 1)
}

func TestReminderMaxExecutionsCapCompletes(t *testing.T) {
	f := newFixture()
	reminder := newDueReminder(domain.FrequencyDaily)
	reminder.MaxExecutions = 2
	reminder.ExecutionCount = 1
	f.reminders.due = []*domain.Reminder{reminder}

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

	assert.Equal(t, 2, reminder.ExecutionCount)
	assert.Equal(t, domain.ReminderStatusCompleted, reminder.Status)
}

func TestReminderRentDueNotifiesLinkedLeaseholder(t *testing.T) {
	f := newFixture()
	lh := f.addLeaseholder("Jane Doe", domain.LeaseholderStatusLate, 5, tickTime)

	reminder := newDueReminder(domain.FrequencyWeekly)
	reminder.Type = domain.ReminderTypeRentDue
	reminder.LeaseholderID = &lh.ID
	f.reminders.due = []*domain.Reminder{reminder}

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

	require.Len(t, f.notifier.events, 1)
	event := f.notifier.events[0]
	assert.Equal(t, domain.NotificationTypeError, event.Type)
	assert.Equal(t, "Rent payment overdue for Jane Doe", event.Message)
	assert.Equal(t, "landlord-1", event.UserID)
}

func TestReminderFaultIsolation(t *testing.T) {
	f := newFixture()
	first := newDueReminder(domain.FrequencyWeekly)
	second := newDueReminder(domain.FrequencyWeekly)
	third := newDueReminder(domain.FrequencyWeekly)
	f.reminders.due = []*domain.Reminder{first, second, third}
	f.reminders.saveErrFor[second.ID] = errors.New("write conflict")

	err := f.processor.RunTick(context.Background(), tickTime)
	require.NoError(t, err, "a per-reminder failure must not escape the pass")

	assert.Equal(t, 1, first.ExecutionCount)
	assert.Equal(t, 1, third.ExecutionCount)
	require.Len(t, f.reminders.saved, 2)
	assert.Equal(t, first.ID, f.reminders.saved[0].ID)
	assert.Equal(t, third.ID, f.reminders.saved[1].ID)
}

// ---- occupancy pass ----

func TestOccupancyComputation(t *testing.T) {
	f := newFixture()
	property := &domain.Property{
		ID:            primitive.NewObjectID(),
		OrgID:         "org-1",
		NumberOfUnits: 10,
	}
	f.properties.items = []*domain.Property{property}
	f.leaseholders.occupying[property.ID] = 4

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

	assert.Equal(t, 40.0, property.OccupancyRate)
	require.Len(t, f.properties.saved, 1)
}

func TestOccupancyZeroUnits(t *testing.T) {
	f := newFixture()
	property := &domain.Property{
		ID:    primitive.NewObjectID(),
		OrgID: "org-1",
	}
	f.properties.items = []*domain.Property{property}
	f.leaseholders.occupying[property.ID] = 3

	require.NoError(t, f.processor.RunTick(context.Background(), tickTime))

	assert.Equal(t, 0.0, property.OccupancyRate)
}

// ---- tick-level failure semantics ----

func TestPassFailureAbortsRemainingPasses(t *testing.T) {
	f := newFixture()
	f.leaseholders.findByStatusErr = errors.New("connection reset")

	err := f.processor.RunTick(context.Background(), tickTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overdue-rent pass")
	assert.Zero(t, f.reminders.findDueCalls, "later passes must not run after a pass failure")
	assert.Empty(t, f.properties.saved)
}
