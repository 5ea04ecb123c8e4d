package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, reminder *EventReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockEventRepository) ListByUser(ctx context.Context, userID uint64) ([]EventReminder, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]EventReminder), args.Error(1)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id, userID uint64) (*EventReminder, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EventReminder), args.Error(1)
}

func (m *MockEventRepository) FindByEvent(ctx context.Context, eventID string, userID uint64) (*EventReminder, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EventReminder), args.Error(1)
}

func (m *MockEventRepository) Save(ctx context.Context, reminder *EventReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id, userID uint64) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) DeleteByEvent(ctx context.Context, eventID string, userID uint64) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) Due(ctx context.Context, now time.Time) ([]EventReminder, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]EventReminder), args.Error(1)
}

func (m *MockEventRepository) MarkSent(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockInternalRepository struct {
	mock.Mock
}

func (m *MockInternalRepository) Create(ctx context.Context, reminder *InternalReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockInternalRepository) ListByUser(ctx context.Context, userID uint64) ([]InternalReminder, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]InternalReminder), args.Error(1)
}

func (m *MockInternalRepository) FindByID(ctx context.Context, id, userID uint64) (*InternalReminder, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InternalReminder), args.Error(1)
}

func (m *MockInternalRepository) Save(ctx context.Context, reminder *InternalReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockInternalRepository) Delete(ctx context.Context, id, userID uint64) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInternalRepository) Due(ctx context.Context, now time.Time) ([]InternalReminder, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]InternalReminder), args.Error(1)
}

func (m *MockInternalRepository) MarkSent(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockInternalRepository) Terminate(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockInternalRepository) RollForward(ctx context.Context, id uint64, oldAnchor, newAnchor, newReminderTime time.Time) (bool, error) {
	args := m.Called(ctx, id, oldAnchor, newAnchor, newReminderTime)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendEventReminder(title string, eventStart time.Time, minutesBefore int, location string) error {
	args := m.Called(title, eventStart, minutesBefore, location)
	return args.Error(0)
}

func (m *MockNotifier) SendInternalReminder(title string, reminderAt time.Time, minutesBefore int, description string) error {
	args := m.Called(title, reminderAt, minutesBefore, description)
	return args.Error(0)
}

func newTestScanner(events *MockEventRepository, internals *MockInternalRepository, notifier *MockNotifier) *Scanner {
	return NewScanner(events, internals, notifier, time.Minute)
}

func TestRunOnce_SendsDueEventReminder(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	eventStart := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	events.On("Due", mock.Anything, mock.Anything).Return([]EventReminder{
		{ID: 1, EventTitle: "Dentista", EventStart: eventStart, MinutesBefore: 30, EventLocation: "Madrid"},
	}, nil)
	internals.On("Due", mock.Anything, mock.Anything).Return([]InternalReminder{}, nil)
	notifier.On("SendEventReminder", "Dentista", eventStart, 30, "Madrid").Return(nil)
	events.On("MarkSent", mock.Anything, uint64(1)).Return(true, nil)

	result := scanner.RunOnce(context.Background())

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.TotalChecked)
	events.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRunOnce_DispatchFailureLeavesReminderUnsent(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	events.On("Due", mock.Anything, mock.Anything).Return([]EventReminder{
		{ID: 1, EventTitle: "Dentista", MinutesBefore: 30},
	}, nil)
	internals.On("Due", mock.Anything, mock.Anything).Return([]InternalReminder{}, nil)
	notifier.On("SendEventReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	result := scanner.RunOnce(context.Background())

	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Failed)
	events.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)
}

func TestRunOnce_FailingReminderDoesNotAbortBatch(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	events.On("Due", mock.Anything, mock.Anything).Return([]EventReminder{
		{ID: 1, EventTitle: "Primero", MinutesBefore: 10},
		{ID: 2, EventTitle: "Segundo", MinutesBefore: 10},
	}, nil)
	internals.On("Due", mock.Anything, mock.Anything).Return([]InternalReminder{}, nil)
	notifier.On("SendEventReminder", "Primero", mock.Anything, 10, "").Return(assert.AnError)
	notifier.On("SendEventReminder", "Segundo", mock.Anything, 10, "").Return(nil)
	events.On("MarkSent", mock.Anything, uint64(2)).Return(true, nil)

	result := scanner.RunOnce(context.Background())

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.TotalChecked)
}

func TestRunOnce_MarksNonRecurringInternalSent(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	reminderAt := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	events.On("Due", mock.Anything, mock.Anything).Return([]EventReminder{}, nil)
	internals.On("Due", mock.Anything, mock.Anything).Return([]InternalReminder{
		{ID: 7, Title: "Pagar alquiler", ReminderDatetime: reminderAt, MinutesBefore: 15, Description: "Antes del día 5"},
	}, nil)
	notifier.On("SendInternalReminder", "Pagar alquiler", reminderAt, 15, "Antes del día 5").Return(nil)
	internals.On("MarkSent", mock.Anything, uint64(7)).Return(true, nil)

	result := scanner.RunOnce(context.Background())

	assert.Equal(t, 1, result.Sent)
	internals.AssertExpectations(t)
}

func TestRunOnce_MonthlyRollover(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	anchor := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	nextAnchor := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	nextReminderTime := time.Date(2024, 2, 15, 9, 50, 0, 0, time.UTC)

	events.On("Due", mock.Anything, mock.Anything).Return([]EventReminder{}, nil)
	internals.On("Due", mock.Anything, mock.Anything).Return([]InternalReminder{
		{
			ID:               3,
			Title:            "Revisión mensual",
			ReminderDatetime: anchor,
			MinutesBefore:    10,
			IsRecurring:      true,
			RecurrenceType:   RecurrenceMonthly,
		},
	}, nil)
	notifier.On("SendInternalReminder", "Revisión mensual", anchor, 10, "").Return(nil)
	internals.On("RollForward", mock.Anything, uint64(3), anchor, nextAnchor, nextReminderTime).Return(true, nil)

	result := scanner.RunOnce(context.Background())

	assert.Equal(t, 1, result.Sent)
	internals.AssertExpectations(t)
	internals.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)
}

func TestRunOnce_RecurrenceEndDateTerminatesSeries(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	anchor := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	events.On("Due", mock.Anything, mock.Anything).Return([]EventReminder{}, nil)
	internals.On("Due", mock.Anything, mock.Anything).Return([]InternalReminder{
		{
			ID:                4,
			Title:             "Serie que termina",
			ReminderDatetime:  anchor,
			MinutesBefore:     10,
			IsRecurring:       true,
			RecurrenceType:    RecurrenceMonthly,
			RecurrenceEndDate: &endDate,
		},
	}, nil)
	notifier.On("SendInternalReminder", "Serie que termina", anchor, 10, "").Return(nil)
	internals.On("Terminate", mock.Anything, uint64(4)).Return(true, nil)

	result := scanner.RunOnce(context.Background())

	assert.Equal(t, 1, result.Sent)
	internals.AssertExpectations(t)
	internals.AssertNotCalled(t, "RollForward", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunOnce_UnknownRecurrenceTypeTerminatesSeries(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	anchor := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	events.On("Due", mock.Anything, mock.Anything).Return([]EventReminder{}, nil)
	internals.On("Due", mock.Anything, mock.Anything).Return([]InternalReminder{
		{
			ID:               5,
			Title:            "Recurrencia rara",
			ReminderDatetime: anchor,
			MinutesBefore:    0,
			IsRecurring:      true,
			RecurrenceType:   RecurrenceType("fortnightly"),
		},
	}, nil)
	notifier.On("SendInternalReminder", "Recurrencia rara", anchor, 0, "").Return(nil)
	internals.On("Terminate", mock.Anything, uint64(5)).Return(true, nil)

	scanner.RunOnce(context.Background())

	internals.AssertExpectations(t)
}

func TestRunOnce_SkipsWhenAlreadyInFlight(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	scanner.inFlight.Store(true)

	result := scanner.RunOnce(context.Background())

	assert.Equal(t, "skipped", result.Status)
	assert.Equal(t, 0, result.TotalChecked)
	events.AssertNotCalled(t, "Due", mock.Anything, mock.Anything)
}

func TestRunOnce_ReleasesGuardAfterScan(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	notifier := new(MockNotifier)
	scanner := newTestScanner(events, internals, notifier)

	events.On("Due", mock.Anything, mock.Anything).Return([]EventReminder{}, nil)
	internals.On("Due", mock.Anything, mock.Anything).Return([]InternalReminder{}, nil)

	first := scanner.RunOnce(context.Background())
	second := scanner.RunOnce(context.Background())

	assert.Equal(t, "success", first.Status)
	assert.Equal(t, "success", second.Status)
}
