package activity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/project-tracker/internal"
	activityDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/activity"
	"github.com/frahmantamala/project-tracker/internal/core/events"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

type RepositoryAPI interface {
	Create(ctx context.Context, log *activityDatamodel.ActivityLog) error
	// List returns at most limit entries, newest first.
	List(ctx context.Context, limit int) ([]*activityDatamodel.ActivityLog, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Record(ctx context.Context, title, description, byUser string) (*Activity, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, internal.NewValidationFieldError("activity_title", "activity_title is required", internal.ErrCodeMissingTitle)
	}

	row := ToDataModel(NewActivity(title, strings.TrimSpace(description), byUser))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to record activity", "title", title, "error", err)
		return nil, internal.NewInternalError("failed to record activity", err)
	}
	return FromDataModel(row), nil
}

// List clamps limit into [1, MaxLimit]; zero or negative means DefaultLimit.
func (s *Service) List(ctx context.Context, limit int) ([]*Activity, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	rows, err := s.repo.List(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list activity", "error", err)
		return nil, internal.NewInternalError("failed to list activity", err)
	}

	out := make([]*Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// HandleEvent records entity change events published by the other services.
func (s *Service) HandleEvent(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.EntityChangedEvent)
	if !ok {
		s.logger.WarnContext(ctx, "ignoring unexpected event", "event_type", event.EventType())
		return nil
	}

	_, err := s.Record(ctx, changed.Title(), changed.Description(), changed.ActorUID)
	return err
}
