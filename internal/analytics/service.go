package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/project"
)

// Source yields the latest project snapshot; project.Feed satisfies it.
type Source interface {
	Current(ctx context.Context) (project.Snapshot, error)
}

type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionPlatform Dimension = "platform"
	DimensionBrand    Dimension = "brand"
	DimensionStatus   Dimension = "status"
	DimensionDivision Dimension = "division"
)

var dimensionKeys = map[Dimension]KeyFunc{
	DimensionCategory: ByCategory,
	DimensionPlatform: ByPlatform,
	DimensionBrand:    ByBrand,
	DimensionStatus:   ByStatus,
	DimensionDivision: ByDivision,
}

const DefaultTopN = 5

type Service struct {
	source Source
	now    func() time.Time
	logger *slog.Logger
}

func NewService(source Source, logger *slog.Logger) *Service {
	return &Service{source: source, now: time.Now, logger: logger}
}

// WithClock replaces the time source; tests pin "now" with it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) records(ctx context.Context) ([]Record, time.Time, error) {
	snap, err := s.source.Current(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load project snapshot", "error", err)
		return nil, time.Time{}, internal.NewInternalError("failed to load projects", err)
	}
	now := s.now()
	out := make([]Record, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		out = append(out, RecordFromProject(p, now.Location()))
	}
	return out, now, nil
}

type Change struct {
	Projects float64 `json:"projects"`
	Views    float64 `json:"views"`
	Likes    float64 `json:"likes"`
	Comments float64 `json:"comments"`
}

type Summary struct {
	Window   string     `json:"window"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	Projects int64      `json:"projects"`
	Views    int64      `json:"views"`
	Likes    int64      `json:"likes"`
	Comments int64      `json:"comments"`
	Previous *Group     `json:"previous,omitempty"`
	Change   Change     `json:"change"`
}

// Summary totals the window and compares it with the preceding one.
func (s *Service) Summary(ctx context.Context, sel Selector) (*Summary, error) {
	records, now, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	w := sel.Window(now)
	cur := Totals(Filter(records, w))
	out := &Summary{
		Window:   sel.String(),
		Projects: cur.Count,
		Views:    cur.Views,
		Likes:    cur.Likes,
		Comments: cur.Comments,
	}
	if !w.Unbounded {
		out.From, out.To = &w.Start, &w.End
	}

	if prevWindow, ok := sel.Previous(now); ok {
		prev := Totals(Filter(records, prevWindow))
		out.Previous = &prev
		out.Change = Change{
			Projects: PercentChange(cur.Count, prev.Count),
			Views:    PercentChange(cur.Views, prev.Views),
			Likes:    PercentChange(cur.Likes, prev.Likes),
			Comments: PercentChange(cur.Comments, prev.Comments),
		}
	}
	return out, nil
}

type Slice struct {
	Group
	Share float64 `json:"share"`
}

type Breakdown struct {
	Window    string    `json:"window"`
	Dimension Dimension `json:"dimension"`
	Metric    Metric    `json:"metric"`
	Total     int64     `json:"total"`
	Groups    []Slice   `json:"groups"`
}

// Breakdown groups the window by dimension. limit > 0 applies the Top N plus
// Others policy; otherwise every group is returned, largest first.
func (s *Service) Breakdown(ctx context.Context, sel Selector, dim Dimension, m Metric, limit int) (*Breakdown, error) {
	key, ok := dimensionKeys[dim]
	if !ok {
		return nil, internal.NewValidationError("unknown dimension "+string(dim), internal.ErrCodeValidationFailed)
	}
	records, now, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	groups := Aggregate(Filter(records, sel.Window(now)), key)
	if limit > 0 {
		groups = TopN(groups, limit, m)
	} else {
		SortGroups(groups, m, true)
	}

	var total int64
	for _, g := range groups {
		total += g.Value(m)
	}

	out := &Breakdown{
		Window:    sel.String(),
		Dimension: dim,
		Metric:    m,
		Total:     total,
		Groups:    make([]Slice, 0, len(groups)),
	}
	for _, g := range groups {
		out.Groups = append(out.Groups, Slice{Group: g, Share: Share(g.Value(m), total)})
	}
	return out, nil
}

type Timeline struct {
	Window  string  `json:"window"`
	Buckets []Group `json:"buckets"`
}

// Timeline buckets dated records by month, oldest first.
func (s *Service) Timeline(ctx context.Context, sel Selector) (*Timeline, error) {
	records, now, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	buckets := Aggregate(Filter(records, sel.Window(now)), ByMonth)
	SortByKey(buckets)
	if buckets == nil {
		buckets = []Group{}
	}
	return &Timeline{Window: sel.String(), Buckets: buckets}, nil
}
