package reminder

import (
	"context"
	defError "errors"
	"time"

	"mnemosine-api/internal/errors"

	"gorm.io/gorm"
)

type Service interface {
	CreateEventReminder(ctx context.Context, userID uint64, req EventReminderRequest) (*EventReminder, error)
	ListEventReminders(ctx context.Context, userID uint64) ([]EventReminder, error)
	GetEventReminder(ctx context.Context, id, userID uint64) (*EventReminder, error)
	GetEventReminderByEvent(ctx context.Context, eventID string, userID uint64) (*EventReminder, error)
	UpdateEventReminderByEvent(ctx context.Context, eventID string, userID uint64, req EventReminderRequest) (*EventReminder, error)
	DeleteEventReminder(ctx context.Context, id, userID uint64) error
	DeleteEventReminderByEvent(ctx context.Context, eventID string, userID uint64) error

	CreateInternalReminder(ctx context.Context, userID uint64, req InternalReminderRequest) (*InternalReminder, error)
	ListInternalReminders(ctx context.Context, userID uint64) ([]InternalReminder, error)
	GetInternalReminder(ctx context.Context, id, userID uint64) (*InternalReminder, error)
	UpdateInternalReminder(ctx context.Context, id, userID uint64, req InternalReminderRequest) (*InternalReminder, error)
	ToggleCompleted(ctx context.Context, id, userID uint64) (*InternalReminder, error)
	DeleteInternalReminder(ctx context.Context, id, userID uint64) error
}

type EventReminderRequest struct {
	EventID       string    `json:"event_id" binding:"required"`
	EventTitle    string    `json:"event_title" binding:"required"`
	EventStart    time.Time `json:"event_start" binding:"required"`
	EventLocation string    `json:"event_location"`
	MinutesBefore int       `json:"minutes_before" binding:"gte=0"`
}

type InternalReminderRequest struct {
	Title             string         `json:"title" binding:"required"`
	Description       string         `json:"description"`
	ReminderDatetime  time.Time      `json:"reminder_datetime" binding:"required"`
	MinutesBefore     int            `json:"minutes_before" binding:"gte=0"`
	Completed         *bool          `json:"completed"`
	IsRecurring       bool           `json:"is_recurring"`
	RecurrenceType    RecurrenceType `json:"recurrence_type" binding:"omitempty,oneof=daily weekly monthly yearly"`
	RecurrenceEndDate *time.Time     `json:"recurrence_end_date"`
}

type DefaultService struct {
	events    EventReminderRepository
	internals InternalReminderRepository
}

func NewService(events EventReminderRepository, internals InternalReminderRepository) Service {
	return &DefaultService{events: events, internals: internals}
}

func (s *DefaultService) CreateEventReminder(ctx context.Context, userID uint64, req EventReminderRequest) (*EventReminder, error) {
	reminder := &EventReminder{
		UserID:        userID,
		EventID:       req.EventID,
		EventTitle:    req.EventTitle,
		EventStart:    req.EventStart,
		EventLocation: req.EventLocation,
		ReminderTime:  ComputeReminderTime(req.EventStart, req.MinutesBefore),
		MinutesBefore: req.MinutesBefore,
		Sent:          false,
	}
	if err := s.events.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *DefaultService) ListEventReminders(ctx context.Context, userID uint64) ([]EventReminder, error) {
	return s.events.ListByUser(ctx, userID)
}

func (s *DefaultService) GetEventReminder(ctx context.Context, id, userID uint64) (*EventReminder, error) {
	reminder, err := s.events.FindByID(ctx, id, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Reminder not found", err)
		}
		return nil, err
	}
	return reminder, nil
}

func (s *DefaultService) GetEventReminderByEvent(ctx context.Context, eventID string, userID uint64) (*EventReminder, error) {
	reminder, err := s.events.FindByEvent(ctx, eventID, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Reminder not found", err)
		}
		return nil, err
	}
	return reminder, nil
}

// UpdateEventReminderByEvent rewrites the reminder of an event. The
// sent flag is reset so the updated schedule fires again.
func (s *DefaultService) UpdateEventReminderByEvent(ctx context.Context, eventID string, userID uint64, req EventReminderRequest) (*EventReminder, error) {
	reminder, err := s.GetEventReminderByEvent(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	reminder.EventTitle = req.EventTitle
	reminder.EventStart = req.EventStart
	reminder.EventLocation = req.EventLocation
	reminder.MinutesBefore = req.MinutesBefore
	reminder.ReminderTime = ComputeReminderTime(req.EventStart, req.MinutesBefore)
	reminder.Sent = false

	if err := s.events.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *DefaultService) DeleteEventReminder(ctx context.Context, id, userID uint64) error {
	deleted, err := s.events.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Reminder not found", nil)
	}
	return nil
}

func (s *DefaultService) DeleteEventReminderByEvent(ctx context.Context, eventID string, userID uint64) error {
	deleted, err := s.events.DeleteByEvent(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Reminder not found", nil)
	}
	return nil
}

func (s *DefaultService) CreateInternalReminder(ctx context.Context, userID uint64, req InternalReminderRequest) (*InternalReminder, error) {
	reminder := &InternalReminder{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		ReminderDatetime:  req.ReminderDatetime,
		ReminderTime:      ComputeReminderTime(req.ReminderDatetime, req.MinutesBefore),
		MinutesBefore:     req.MinutesBefore,
		Sent:              false,
		IsRecurring:       req.IsRecurring,
		RecurrenceType:    req.RecurrenceType,
		RecurrenceEndDate: req.RecurrenceEndDate,
	}
	if err := s.internals.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *DefaultService) ListInternalReminders(ctx context.Context, userID uint64) ([]InternalReminder, error) {
	return s.internals.ListByUser(ctx, userID)
}

func (s *DefaultService) GetInternalReminder(ctx context.Context, id, userID uint64) (*InternalReminder, error) {
	reminder, err := s.internals.FindByID(ctx, id, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Reminder not found", err)
		}
		return nil, err
	}
	return reminder, nil
}

func (s *DefaultService) UpdateInternalReminder(ctx context.Context, id, userID uint64, req InternalReminderRequest) (*InternalReminder, error) {
	reminder, err := s.GetInternalReminder(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	reminder.Title = req.Title
	reminder.Description = req.Description
	reminder.ReminderDatetime = req.ReminderDatetime
	reminder.MinutesBefore = req.MinutesBefore
	reminder.ReminderTime = ComputeReminderTime(req.ReminderDatetime, req.MinutesBefore)
	reminder.Sent = false
	reminder.IsRecurring = req.IsRecurring
	reminder.RecurrenceType = req.RecurrenceType
	reminder.RecurrenceEndDate = req.RecurrenceEndDate
	if req.Completed != nil {
		reminder.Completed = *req.Completed
	}

	if err := s.internals.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *DefaultService) ToggleCompleted(ctx context.Context, id, userID uint64) (*InternalReminder, error) {
	reminder, err := s.GetInternalReminder(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	reminder.Completed = !reminder.Completed
	if err := s.internals.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *DefaultService) DeleteInternalReminder(ctx context.Context, id, userID uint64) error {
	deleted, err := s.internals.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Reminder not found", nil)
	}
	return nil
}
