package reminder

import "time"

// RecurrenceType is the repetition period of an internal reminder.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// EventReminder notifies ahead of an external calendar event. EventID
// is the calendar's id, so events stay addressable without storing the
// event itself.
type EventReminder struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	UserID        uint64    `gorm:"index" json:"-"`
	EventID       string    `gorm:"index" json:"event_id"`
	EventTitle    string    `json:"event_title"`
	EventStart    time.Time `json:"event_start"`
	EventLocation string    `json:"event_location,omitempty"`
	ReminderTime  time.Time `gorm:"index" json:"reminder_time"`
	MinutesBefore int       `json:"minutes_before"`
	Sent          bool      `json:"sent"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InternalReminder is a standalone reminder, optionally recurring.
type InternalReminder struct {
	ID                uint64         `gorm:"primaryKey" json:"id"`
	UserID            uint64         `gorm:"index" json:"-"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	ReminderDatetime  time.Time      `json:"reminder_datetime"`
	ReminderTime      time.Time      `gorm:"index" json:"reminder_time"`
	MinutesBefore     int            `json:"minutes_before"`
	Sent              bool           `json:"sent"`
	Completed         bool           `json:"completed"`
	IsRecurring       bool           `json:"is_recurring"`
	RecurrenceType    RecurrenceType `json:"recurrence_type,omitempty"`
	RecurrenceEndDate *time.Time     `json:"recurrence_end_date,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ComputeReminderTime derives the dispatch moment from the anchor.
func ComputeReminderTime(anchor time.Time, minutesBefore int) time.Time {
	return anchor.Add(-time.Duration(minutesBefore) * time.Minute)
}

// NextOccurrence advances the anchor by one recurrence period. The
// second return value is false for an unrecognized type.
func NextOccurrence(anchor time.Time, recurrence RecurrenceType) (time.Time, bool) {
	switch recurrence {
	case RecurrenceDaily:
		return anchor.AddDate(0, 0, 1), true
	case RecurrenceWeekly:
		return anchor.AddDate(0, 0, 7), true
	case RecurrenceMonthly:
		return anchor.AddDate(0, 1, 0), true
	case RecurrenceYearly:
		return anchor.AddDate(1, 0, 0), true
	default:
		return time.Time{}, false
	}
}
