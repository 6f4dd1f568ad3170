package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/project-tracker/internal"
	projectDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/project"
	"github.com/frahmantamala/project-tracker/internal/core/events"
	"github.com/frahmantamala/project-tracker/internal/videometrics"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*projectDatamodel.Project, error)
	GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error)
	Create(ctx context.Context, p *projectDatamodel.Project) error
	Update(ctx context.Context, p *projectDatamodel.Project) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateMetrics(ctx context.Context, id int64, stats videometrics.Stats) error
	Delete(ctx context.Context, id int64) error
}

// CategoryNames maps category ids to display names.
type CategoryNames interface {
	Names(ctx context.Context) (map[int64]string, error)
}

type MetricsClient interface {
	FetchStats(ctx context.Context, link string) (*videometrics.Stats, error)
}

type Service struct {
	repo       Repository
	categories CategoryNames
	metrics    MetricsClient
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewService wires the project service. metrics may be nil when no video
// metrics API is configured.
func NewService(repo Repository, categories CategoryNames, metrics MetricsClient, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		metrics:    metrics,
		publisher:  publisher,
		logger:     logger,
	}
}

// lookupCategories is used on write paths, where an unknown category must be
// told apart from a lookup that could not run.
func (s *Service) lookupCategories(ctx context.Context) (map[int64]string, error) {
	names, err := s.categories.Names(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "category lookup failed", "error", err)
		return nil, internal.NewInternalError("failed to load categories", err)
	}
	return names, nil
}

// categoryNames never fails; a broken lookup leaves every reference unresolved.
func (s *Service) categoryNames(ctx context.Context) map[int64]string {
	names, err := s.categories.Names(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "category lookup failed, references left unresolved", "error", err)
		return map[int64]string{}
	}
	return names
}

func (s *Service) fromRow(ctx context.Context, row *projectDatamodel.Project) *Project {
	p, err := DecodeDataModel(row)
	if err != nil {
		s.logger.WarnContext(ctx, "stored SOW is unreadable, serving it empty", "project_id", row.ID, "error", err)
	}
	return p
}

func (s *Service) resolve(p *Project, names map[int64]string) *Project {
	p.CategoryName = p.Category.Resolve(names)
	return p
}

func (s *Service) List(ctx context.Context) ([]*Project, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list projects", "error", err)
		return nil, internal.NewInternalError("failed to list projects", err)
	}
	names := s.categoryNames(ctx)
	out := make([]*Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.resolve(s.fromRow(ctx, row), names))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(p, s.categoryNames(ctx)), nil
}

func (s *Service) load(ctx context.Context, id int64) (*Project, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get project", "project_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get project", err)
	}
	if row == nil {
		return nil, internal.ErrProjectNotFound
	}
	return s.fromRow(ctx, row), nil
}

func (s *Service) Create(ctx context.Context, req ProjectRequest) (*Project, error) {
	names, err := s.lookupCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkCategory(req.Category, names); err != nil {
		return nil, err
	}

	p := NewProject(req)
	s.fillMetrics(ctx, p)

	row := ToDataModel(p)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create project", "name", p.Name, "error", err)
		return nil, internal.NewInternalError("failed to create project", err)
	}

	created := s.resolve(s.fromRow(ctx, row), names)
	s.logger.InfoContext(ctx, "project created",
		"project_id", created.ID,
		"status", created.Status,
		"views", created.Views)

	events.Emit(ctx, s.publisher, s.logger, events.EntityProject, events.ActionCreated, created.ID, created.Name)
	return created, nil
}

// fillMetrics populates engagement counters on a best-effort basis.
func (s *Service) fillMetrics(ctx context.Context, p *Project) {
	if s.metrics == nil {
		return
	}
	link, ok := p.VideoLink()
	if !ok {
		return
	}
	stats, err := s.metrics.FetchStats(ctx, link)
	if err != nil {
		s.logger.WarnContext(ctx, "video metrics lookup failed, keeping zero counts", "link", link, "error", err)
		return
	}
	p.Views, p.Likes, p.Comments = stats.Views, stats.Likes, stats.Comments
}

func (s *Service) Update(ctx context.Context, id int64, req ProjectRequest) (*Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := s.lookupCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkCategory(req.Category, names); err != nil {
		return nil, err
	}

	req.apply(p)
	row := ToDataModel(p)
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to update project", "project_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update project", err)
	}

	events.Emit(ctx, s.publisher, s.logger, events.EntityProject, events.ActionUpdated, id, p.Name)
	return s.resolve(s.fromRow(ctx, row), names), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Project, error) {
	if !IsValidStatus(status) {
		return nil, internal.NewValidationFieldError("projectStatus",
			fmt.Sprintf("projectStatus must be one of: %v", statuses), internal.ErrCodeInvalidStatus)
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to update project status", "project_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update project status", err)
	}

	s.logger.InfoContext(ctx, "project status changed", "project_id", id, "from", p.Status, "to", status)
	p.Status = status
	events.Emit(ctx, s.publisher, s.logger, events.EntityProject, events.ActionUpdated, id, p.Name)
	return s.resolve(p, s.categoryNames(ctx)), nil
}

// RefreshMetrics re-reads engagement counters and, unlike create, reports
// lookup failures to the caller.
func (s *Service) RefreshMetrics(ctx context.Context, id int64) (*Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	link, ok := p.VideoLink()
	if !ok {
		return nil, internal.NewValidationFieldError("platformLink",
			"project has no "+VideoPlatform+" link", internal.ErrCodeValidationFailed)
	}
	if s.metrics == nil {
		return nil, internal.ErrMetricsUnavailable.WithCause(fmt.Errorf("metrics client not configured"))
	}

	stats, err := s.metrics.FetchStats(ctx, link)
	if err != nil {
		s.logger.ErrorContext(ctx, "video metrics lookup failed", "project_id", id, "link", link, "error", err)
		return nil, internal.ErrMetricsUnavailable.WithCause(err)
	}
	if err := s.repo.UpdateMetrics(ctx, id, *stats); err != nil {
		return nil, internal.NewInternalError("failed to store project metrics", err)
	}

	p.Views, p.Likes, p.Comments = stats.Views, stats.Likes, stats.Comments
	events.Emit(ctx, s.publisher, s.logger, events.EntityProject, events.ActionUpdated, id, p.Name)
	return s.resolve(p, s.categoryNames(ctx)), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete project", "project_id", id, "error", err)
		return internal.NewInternalError("failed to delete project", err)
	}
	events.Emit(ctx, s.publisher, s.logger, events.EntityProject, events.ActionDeleted, id, p.Name)
	return nil
}

func checkCategory(ref CategoryRef, names map[int64]string) error {
	if ref.Kind != CategoryReference {
		return nil
	}
	if _, ok := names[ref.ID]; !ok {
		return internal.NewValidationFieldError("category",
			fmt.Sprintf("category %d does not exist", ref.ID), internal.ErrCodeValidationFailed)
	}
	return nil
}
