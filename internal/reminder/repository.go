package reminder

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type EventReminderRepository interface {
	Create(ctx context.Context, reminder *EventReminder) error
	ListByUser(ctx context.Context, userID uint64) ([]EventReminder, error)
	FindByID(ctx context.Context, id, userID uint64) (*EventReminder, error)
	FindByEvent(ctx context.Context, eventID string, userID uint64) (*EventReminder, error)
	Save(ctx context.Context, reminder *EventReminder) error
	Delete(ctx context.Context, id, userID uint64) (bool, error)
	DeleteByEvent(ctx context.Context, eventID string, userID uint64) (bool, error)
	Due(ctx context.Context, now time.Time) ([]EventReminder, error)
	MarkSent(ctx context.Context, id uint64) (bool, error)
}

type InternalReminderRepository interface {
	Create(ctx context.Context, reminder *InternalReminder) error
	ListByUser(ctx context.Context, userID uint64) ([]InternalReminder, error)
	FindByID(ctx context.Context, id, userID uint64) (*InternalReminder, error)
	Save(ctx context.Context, reminder *InternalReminder) error
	Delete(ctx context.Context, id, userID uint64) (bool, error)
	Due(ctx context.Context, now time.Time) ([]InternalReminder, error)
	MarkSent(ctx context.Context, id uint64) (bool, error)
	Terminate(ctx context.Context, id uint64) (bool, error)
	RollForward(ctx context.Context, id uint64, oldAnchor, newAnchor, newReminderTime time.Time) (bool, error)
}

type EventReminderRepositoryImpl struct {
	db *gorm.DB
}

// NewEventRepository creates a new event reminder repository
func NewEventRepository(db *gorm.DB) EventReminderRepository {
	return &EventReminderRepositoryImpl{db: db}
}

func (r *EventReminderRepositoryImpl) Create(ctx context.Context, reminder *EventReminder) error {
	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *EventReminderRepositoryImpl) ListByUser(ctx context.Context, userID uint64) ([]EventReminder, error) {
	var reminders []EventReminder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&reminders).Error
	return reminders, err
}

func (r *EventReminderRepositoryImpl) FindByID(ctx context.Context, id, userID uint64) (*EventReminder, error) {
	var reminder EventReminder
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&reminder).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *EventReminderRepositoryImpl) FindByEvent(ctx context.Context, eventID string, userID uint64) (*EventReminder, error) {
	var reminder EventReminder
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&reminder).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *EventReminderRepositoryImpl) Save(ctx context.Context, reminder *EventReminder) error {
	reminder.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(reminder).Error
}

func (r *EventReminderRepositoryImpl) Delete(ctx context.Context, id, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&EventReminder{})
	return result.RowsAffected > 0, result.Error
}

func (r *EventReminderRepositoryImpl) DeleteByEvent(ctx context.Context, eventID string, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&EventReminder{})
	return result.RowsAffected > 0, result.Error
}

func (r *EventReminderRepositoryImpl) Due(ctx context.Context, now time.Time) ([]EventReminder, error) {
	var reminders []EventReminder
	err := r.db.WithContext(ctx).
		Where("sent = ? AND reminder_time <= ?", false, now).
		Find(&reminders).Error
	return reminders, err
}

// MarkSent claims a due reminder. The sent condition makes the claim
// race-free across scans; false means another scan got there first.
func (r *EventReminderRepositoryImpl) MarkSent(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&EventReminder{}).
		Where("id = ? AND sent = ?", id, false).
		Updates(map[string]interface{}{
			"sent":       true,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}

type InternalReminderRepositoryImpl struct {
	db *gorm.DB
}

// NewInternalRepository creates a new internal reminder repository
func NewInternalRepository(db *gorm.DB) InternalReminderRepository {
	return &InternalReminderRepositoryImpl{db: db}
}

func (r *InternalReminderRepositoryImpl) Create(ctx context.Context, reminder *InternalReminder) error {
	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *InternalReminderRepositoryImpl) ListByUser(ctx context.Context, userID uint64) ([]InternalReminder, error) {
	var reminders []InternalReminder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("reminder_datetime ASC").
		Find(&reminders).Error
	return reminders, err
}

func (r *InternalReminderRepositoryImpl) FindByID(ctx context.Context, id, userID uint64) (*InternalReminder, error) {
	var reminder InternalReminder
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&reminder).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *InternalReminderRepositoryImpl) Save(ctx context.Context, reminder *InternalReminder) error {
	reminder.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(reminder).Error
}

func (r *InternalReminderRepositoryImpl) Delete(ctx context.Context, id, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&InternalReminder{})
	return result.RowsAffected > 0, result.Error
}

func (r *InternalReminderRepositoryImpl) Due(ctx context.Context, now time.Time) ([]InternalReminder, error) {
	var reminders []InternalReminder
	err := r.db.WithContext(ctx).
		Where("sent = ? AND reminder_time <= ?", false, now).
		Find(&reminders).Error
	return reminders, err
}

func (r *InternalReminderRepositoryImpl) MarkSent(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&InternalReminder{}).
		Where("id = ? AND sent = ?", id, false).
		Updates(map[string]interface{}{
			"sent":       true,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}

// Terminate ends a recurring series: the reminder stays on its last
// anchor, marked sent and completed.
func (r *InternalReminderRepositoryImpl) Terminate(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&InternalReminder{}).
		Where("id = ? AND sent = ?", id, false).
		Updates(map[string]interface{}{
			"sent":       true,
			"completed":  true,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}

// RollForward moves a recurring reminder to its next occurrence. The
// old anchor in the condition keeps two scans from rolling twice.
func (r *InternalReminderRepositoryImpl) RollForward(ctx context.Context, id uint64, oldAnchor, newAnchor, newReminderTime time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&InternalReminder{}).
		Where("id = ? AND sent = ? AND reminder_datetime = ?", id, false, oldAnchor).
		Updates(map[string]interface{}{
			"reminder_datetime": newAnchor,
			"reminder_time":     newReminderTime,
			"sent":              false,
			"completed":         false,
			"updated_at":        time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}
