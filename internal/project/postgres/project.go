package postgres

import (
	"context"
	"errors"

	projectDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/project"
	"github.com/frahmantamala/project-tracker/internal/project"
	"github.com/frahmantamala/project-tracker/internal/videometrics"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]*projectDatamodel.Project, error) {
	var rows []*projectDatamodel.Project
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error) {
	var row projectDatamodel.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *projectDatamodel.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) Update(ctx context.Context, p *projectDatamodel.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&projectDatamodel.Project{}).
		Where("id = ?", id).
		Update("project_status", status).Error
}

func (r *ProjectRepository) UpdateMetrics(ctx context.Context, id int64, stats videometrics.Stats) error {
	return r.db.WithContext(ctx).
		Model(&projectDatamodel.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"views":    stats.Views,
			"likes":    stats.Likes,
			"comments": stats.Comments,
		}).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&projectDatamodel.Project{}, id).Error
}
