package export

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/project"
)

const ContentTypeCSV = "text/csv; charset=utf-8"

// Source yields the latest resolved project snapshot.
type Source interface {
	Current(ctx context.Context) (project.Snapshot, error)
}

type Service struct {
	source Source
	store  ObjectStore
	prefix string
	now    func() time.Time
	logger *slog.Logger
}

// NewService builds the exporter. store may be nil, which disables archiving.
func NewService(source Source, store ObjectStore, prefix string, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
		logger: logger,
	}
}

type Document struct {
	Filename string
	Rows     int
	Body     string
}

// ProjectsCSV renders every project in the current snapshot.
func (s *Service) ProjectsCSV(ctx context.Context) (*Document, error) {
	snap, err := s.source.Current(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to load projects", err)
	}

	rows := make([]Row, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		rows = append(rows, RowFromProject(p))
	}

	body, err := ToCSV(rows, ProjectColumns)
	if err != nil {
		return nil, internal.NewInternalError("failed to render csv", err)
	}

	return &Document{
		Filename: fmt.Sprintf("projects-%s.csv", s.now().UTC().Format("20060102-150405")),
		Rows:     len(rows),
		Body:     body,
	}, nil
}

type Archive struct {
	Key  string `json:"key"`
	Rows int    `json:"rows"`
	Size int    `json:"size"`
}

// ArchiveProjects renders the export and stores it under prefix/yyyy/mm/.
func (s *Service) ArchiveProjects(ctx context.Context) (*Archive, error) {
	if s.store == nil {
		return nil, internal.ErrExportUnavailable
	}

	doc, err := s.ProjectsCSV(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := path.Join(s.prefix,
		fmt.Sprintf("%d/%02d", now.Year(), now.Month()),
		uuid.New().String()+"_"+doc.Filename)

	if err := s.store.Put(ctx, key, strings.NewReader(doc.Body), ContentTypeCSV); err != nil {
		s.logger.ErrorContext(ctx, "failed to archive export", "key", key, "error", err)
		return nil, internal.NewInternalError("failed to archive export", err)
	}

	s.logger.InfoContext(ctx, "project export archived", "key", key, "rows", doc.Rows)
	return &Archive{Key: key, Rows: doc.Rows, Size: len(doc.Body)}, nil
}
