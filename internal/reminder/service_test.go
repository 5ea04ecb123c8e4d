package reminder

import (
	"context"
	"net/http"
	"testing"
	"time"

	"mnemosine-api/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestComputeReminderTime(t *testing.T) {
	anchor := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 1, 15, 9, 50, 0, 0, time.UTC), ComputeReminderTime(anchor, 10))
	assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), ComputeReminderTime(anchor, 90))
	assert.Equal(t, anchor, ComputeReminderTime(anchor, 0))
}

func TestNextOccurrence(t *testing.T) {
	anchor := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	next, ok := NextOccurrence(anchor, RecurrenceDaily)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC), next)

	next, ok = NextOccurrence(anchor, RecurrenceWeekly)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 22, 10, 0, 0, 0, time.UTC), next)

	next, ok = NextOccurrence(anchor, RecurrenceMonthly)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC), next)

	next, ok = NextOccurrence(anchor, RecurrenceYearly)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), next)

	_, ok = NextOccurrence(anchor, RecurrenceType("hourly"))
	assert.False(t, ok)
}

func TestNextOccurrence_MonthEndOverflow(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month into March
	anchor := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	next, ok := NextOccurrence(anchor, RecurrenceMonthly)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), next)
}

func TestCreateEventReminder_ComputesReminderTime(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	service := NewService(events, internals)

	eventStart := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	events.On("Create", mock.Anything, mock.Anything).Return(nil)

	reminder, err := service.CreateEventReminder(context.Background(), 1, EventReminderRequest{
		EventID:       "evt-100",
		EventTitle:    "Dentista",
		EventStart:    eventStart,
		MinutesBefore: 30,
	})

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC), reminder.ReminderTime)
	assert.False(t, reminder.Sent)
	assert.Equal(t, uint64(1), reminder.UserID)
}

func TestUpdateEventReminder_ResetsSentFlag(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	service := NewService(events, internals)

	oldStart := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	newStart := time.Date(2024, 6, 2, 16, 0, 0, 0, time.UTC)

	events.On("FindByEvent", mock.Anything, "evt-100", uint64(1)).Return(&EventReminder{
		ID:            9,
		UserID:        1,
		EventID:       "evt-100",
		EventStart:    oldStart,
		ReminderTime:  ComputeReminderTime(oldStart, 30),
		MinutesBefore: 30,
		Sent:          true,
	}, nil)
	events.On("Save", mock.Anything, mock.MatchedBy(func(r *EventReminder) bool {
		return !r.Sent &&
			r.EventStart.Equal(newStart) &&
			r.ReminderTime.Equal(time.Date(2024, 6, 2, 15, 45, 0, 0, time.UTC))
	})).Return(nil)

	reminder, err := service.UpdateEventReminderByEvent(context.Background(), "evt-100", 1, EventReminderRequest{
		EventID:       "evt-100",
		EventTitle:    "Dentista",
		EventStart:    newStart,
		MinutesBefore: 15,
	})

	assert.NoError(t, err)
	assert.False(t, reminder.Sent)
	events.AssertExpectations(t)
}

func TestGetEventReminder_CrossUserIsNotFound(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	service := NewService(events, internals)

	// owner-scoped query of another user's reminder finds nothing
	events.On("FindByID", mock.Anything, uint64(9), uint64(2)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.GetEventReminder(context.Background(), 9, 2)

	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestDeleteEventReminder_NotFound(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	service := NewService(events, internals)

	events.On("Delete", mock.Anything, uint64(9), uint64(1)).Return(false, nil)

	err := service.DeleteEventReminder(context.Background(), 9, 1)

	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestUpdateInternalReminder_ResetsSentAndRecomputes(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	service := NewService(events, internals)

	oldAnchor := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	newAnchor := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	internals.On("FindByID", mock.Anything, uint64(4), uint64(1)).Return(&InternalReminder{
		ID:               4,
		UserID:           1,
		Title:            "Pagar alquiler",
		ReminderDatetime: oldAnchor,
		ReminderTime:     ComputeReminderTime(oldAnchor, 15),
		MinutesBefore:    15,
		Sent:             true,
	}, nil)
	internals.On("Save", mock.Anything, mock.MatchedBy(func(r *InternalReminder) bool {
		return !r.Sent &&
			r.ReminderDatetime.Equal(newAnchor) &&
			r.ReminderTime.Equal(time.Date(2024, 6, 3, 8, 55, 0, 0, time.UTC))
	})).Return(nil)

	_, err := service.UpdateInternalReminder(context.Background(), 4, 1, InternalReminderRequest{
		Title:            "Pagar alquiler",
		ReminderDatetime: newAnchor,
		MinutesBefore:    5,
	})

	assert.NoError(t, err)
	internals.AssertExpectations(t)
}

func TestToggleCompleted_Flips(t *testing.T) {
	events := new(MockEventRepository)
	internals := new(MockInternalRepository)
	service := NewService(events, internals)

	internals.On("FindByID", mock.Anything, uint64(4), uint64(1)).Return(&InternalReminder{
		ID:        4,
		UserID:    1,
		Completed: false,
	}, nil)
	internals.On("Save", mock.Anything, mock.MatchedBy(func(r *InternalReminder) bool {
		return r.Completed
	})).Return(nil)

	reminder, err := service.ToggleCompleted(context.Background(), 4, 1)

	assert.NoError(t, err)
	assert.True(t, reminder.Completed)
	internals.AssertExpectations(t)
}
