package store

import (
	"context"
	"fmt"

	"choir-attendance/internal/model"

	"gorm.io/gorm"
)

type EventRepo struct {
	db     *gorm.DB
	broker *Broker
}

func orderedRecords(db *gorm.DB) *gorm.DB { return db.Order("position") }

func (r *EventRepo) Get(ctx context.Context, id string) (*model.AttendanceEvent, error) {
	var e model.AttendanceEvent
	err := r.db.WithContext(ctx).Preload("Records", orderedRecords).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// List returns every event, newest first.
func (r *EventRepo) List(ctx context.Context) ([]model.AttendanceEvent, error) {
	var es []model.AttendanceEvent
	err := r.db.WithContext(ctx).Preload("Records", orderedRecords).
		Order("date DESC, created_at DESC").Find(&es).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return es, nil
}

func (r *EventRepo) Create(ctx context.Context, e *model.AttendanceEvent) error {
	prepareRecords(e)
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	r.broker.Publish(KindEvent, OpCreate, e.ID)
	return nil
}

// Replace rewrites the event header and all of its records atomically.
func (r *EventRepo) Replace(ctx context.Context, e *model.AttendanceEvent) error {
	prepareRecords(e)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.AttendanceEvent
		if err := tx.Select("id").First(&existing, "id = ?", e.ID).Error; err != nil {
			return notFound(err)
		}
		err := tx.Model(&model.AttendanceEvent{ID: e.ID}).Updates(map[string]any{
			"date":       e.Date,
			"category":   e.Category,
			"event_name": e.EventName,
		}).Error
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if err := tx.Where("event_id = ?", e.ID).Delete(&model.AttendanceRecord{}).Error; err != nil {
			return fmt.Errorf("clear records: %w", err)
		}
		if len(e.Records) == 0 {
			return nil
		}
		if err := tx.Create(&e.Records).Error; err != nil {
			return fmt.Errorf("insert records: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.broker.Publish(KindEvent, OpUpdate, e.ID)
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.AttendanceRecord{}).Error; err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		res := tx.Delete(&model.AttendanceEvent{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.broker.Publish(KindEvent, OpDelete, id)
	return nil
}

func prepareRecords(e *model.AttendanceEvent) {
	for i := range e.Records {
		e.Records[i].ID = 0
		e.Records[i].EventID = e.ID
		e.Records[i].Position = i
	}
}
