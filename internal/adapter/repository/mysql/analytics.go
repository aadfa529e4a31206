package mysql

import (
	"context"

	analyticsDomain "disclosure-intake/internal/domain/analytics"

	"gorm.io/gorm"
)

type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Create(ctx context.Context, e *analyticsDomain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// CountByType is used by operational checks and tests; dashboards aggregate elsewhere.
func (r *EventRepository) CountByType(ctx context.Context, eventType string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&analyticsDomain.Event{}).Where("event_type = ?", eventType).Count(&n).Error
	return n, err
}
