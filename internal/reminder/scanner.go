package reminder

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// Notifier dispatches formatted reminder notifications.
type Notifier interface {
	SendEventReminder(title string, eventStart time.Time, minutesBefore int, location string) error
	SendInternalReminder(title string, reminderAt time.Time, minutesBefore int, description string) error
}

// Result summarizes one scan pass.
type Result struct {
	Status       string    `json:"status"`
	CheckedAt    time.Time `json:"checked_at"`
	Sent         int       `json:"reminders_sent"`
	Failed       int       `json:"reminders_failed"`
	TotalChecked int       `json:"total_checked"`
}

// Scanner periodically finds due reminders and dispatches them. One
// pass runs at a time; the ticker and the HTTP trigger share the same
// in-flight guard.
type Scanner struct {
	events    EventReminderRepository
	internals InternalReminderRepository
	notifier  Notifier
	interval  time.Duration

	inFlight atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScanner(events EventReminderRepository, internals InternalReminderRepository, notifier Notifier, interval time.Duration) *Scanner {
	return &Scanner{
		events:    events,
		internals: internals,
		notifier:  notifier,
		interval:  interval,
	}
}

// Start launches the ticker goroutine.
func (s *Scanner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Printf("[INFO] reminder scanner started, checking every %s", s.interval)
		for {
			select {
			case <-ctx.Done():
				log.Println("[INFO] reminder scanner stopped")
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// Stop cancels the ticker goroutine and waits for it to exit.
func (s *Scanner) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// RunOnce executes a single scan pass. When another pass is already in
// flight the scan is skipped and reported as such.
func (s *Scanner) RunOnce(ctx context.Context) Result {
	now := time.Now().UTC()
	if !s.inFlight.CompareAndSwap(false, true) {
		return Result{Status: "skipped", CheckedAt: now}
	}
	defer s.inFlight.Store(false)

	result := Result{Status: "success", CheckedAt: now}

	dueEvents, err := s.events.Due(ctx, now)
	if err != nil {
		log.Printf("[ERROR] failed to load due event reminders: %v", err)
		result.Status = "error"
	}
	for _, reminder := range dueEvents {
		result.TotalChecked++
		if s.dispatchEvent(ctx, reminder) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	dueInternals, err := s.internals.Due(ctx, now)
	if err != nil {
		log.Printf("[ERROR] failed to load due internal reminders: %v", err)
		result.Status = "error"
	}
	for _, reminder := range dueInternals {
		result.TotalChecked++
		if s.dispatchInternal(ctx, reminder) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	return result
}

// dispatchEvent sends one event reminder and marks it sent. A dispatch
// failure leaves the row unsent so the next pass retries it.
func (s *Scanner) dispatchEvent(ctx context.Context, reminder EventReminder) bool {
	if err := s.notifier.SendEventReminder(reminder.EventTitle, reminder.EventStart, reminder.MinutesBefore, reminder.EventLocation); err != nil {
		log.Printf("[ERROR] failed to send reminder for event %q: %v", reminder.EventTitle, err)
		return false
	}

	claimed, err := s.events.MarkSent(ctx, reminder.ID)
	if err != nil {
		log.Printf("[ERROR] failed to mark event reminder %d as sent: %v", reminder.ID, err)
		return false
	}
	if !claimed {
		log.Printf("[INFO] event reminder %d was already claimed", reminder.ID)
	}
	return true
}

// dispatchInternal sends one internal reminder, then either marks it
// sent or rolls a recurring one to its next occurrence.
func (s *Scanner) dispatchInternal(ctx context.Context, reminder InternalReminder) bool {
	if err := s.notifier.SendInternalReminder(reminder.Title, reminder.ReminderDatetime, reminder.MinutesBefore, reminder.Description); err != nil {
		log.Printf("[ERROR] failed to send reminder %q: %v", reminder.Title, err)
		return false
	}

	if reminder.IsRecurring && !reminder.Completed {
		if err := s.rollOver(ctx, reminder); err != nil {
			log.Printf("[ERROR] failed to roll over reminder %d: %v", reminder.ID, err)
			return false
		}
		return true
	}

	claimed, err := s.internals.MarkSent(ctx, reminder.ID)
	if err != nil {
		log.Printf("[ERROR] failed to mark reminder %d as sent: %v", reminder.ID, err)
		return false
	}
	if !claimed {
		log.Printf("[INFO] internal reminder %d was already claimed", reminder.ID)
	}
	return true
}

// rollOver advances a recurring reminder by one period, or terminates
// the series when it runs past its end date.
func (s *Scanner) rollOver(ctx context.Context, reminder InternalReminder) error {
	nextAnchor, ok := NextOccurrence(reminder.ReminderDatetime, reminder.RecurrenceType)
	if !ok || (reminder.RecurrenceEndDate != nil && nextAnchor.After(*reminder.RecurrenceEndDate)) {
		_, err := s.internals.Terminate(ctx, reminder.ID)
		return err
	}

	nextReminderTime := ComputeReminderTime(nextAnchor, reminder.MinutesBefore)
	_, err := s.internals.RollForward(ctx, reminder.ID, reminder.ReminderDatetime, nextAnchor, nextReminderTime)
	return err
}
