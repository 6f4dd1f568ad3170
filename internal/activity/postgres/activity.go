package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/project-tracker/internal/activity"
	activityDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/activity"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.RepositoryAPI {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, log *activityDatamodel.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *ActivityRepository) List(ctx context.Context, limit int) ([]*activityDatamodel.ActivityLog, error) {
	var logs []*activityDatamodel.ActivityLog
	err := r.db.WithContext(ctx).
		Order(`"timestamp" DESC`).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
