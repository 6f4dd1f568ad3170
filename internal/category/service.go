package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/project-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/project-tracker/internal/core/events"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) GetAllCategories(ctx context.Context) ([]*Category, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get categories from repository", "error", err)
		return nil, internal.NewInternalError("failed to get categories", err)
	}

	out := make([]*Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	s.logger.DebugContext(ctx, "retrieved categories", "count", len(out))
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, internal.ErrCategoryNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, internal.NewValidationFieldError("category_name", "category_name is required", internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check category name", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateCategory
	}

	row := ToDataModel(NewCategory(name))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create category", "name", name, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	created := FromDataModel(row)
	events.Emit(ctx, s.publisher, s.logger, events.EntityCategory, events.ActionCreated, created.ID, created.Name)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, internal.NewValidationFieldError("category_name", "category_name is required", internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, internal.ErrCategoryNotFound
	}

	if row.Name != name {
		clash, err := s.repo.GetByName(ctx, name)
		if err != nil {
			return nil, internal.NewInternalError("failed to check category name", err)
		}
		if clash != nil {
			return nil, internal.ErrDuplicateCategory
		}
	}

	c := FromDataModel(row)
	c.Rename(name)
	updated := ToDataModel(c)
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, internal.NewInternalError("failed to update category", err)
	}

	events.Emit(ctx, s.publisher, s.logger, events.EntityCategory, events.ActionUpdated, id, name)
	return FromDataModel(updated), nil
}

// Delete leaves projects pointing at the id alone; they resolve to
// "Category not found" afterwards.
func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return internal.ErrCategoryNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete category", err)
	}
	events.Emit(ctx, s.publisher, s.logger, events.EntityCategory, events.ActionDeleted, id, row.Name)
	return nil
}

// Names maps category id to display name for read-time resolution.
func (s *Service) Names(ctx context.Context) (map[int64]string, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}
