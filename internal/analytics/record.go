package analytics

import (
	"time"

	"github.com/frahmantamala/project-tracker/internal/project"
)

// Record is the flattened project row the aggregator works on. Category is
// already resolved to its display name.
type Record struct {
	ID        int64
	Date      time.Time
	Dated     bool
	Category  string
	Brand     string
	Status    string
	Division  string
	Platforms []string
	Views     int64
	Likes     int64
	Comments  int64
}

func RecordFromProject(p *project.Project, loc *time.Location) Record {
	r := Record{
		ID:        p.ID,
		Category:  p.CategoryName,
		Brand:     p.Brand,
		Status:    p.Status,
		Division:  p.Division,
		Platforms: []string(p.Platforms),
		Views:     p.Views,
		Likes:     p.Likes,
		Comments:  p.Comments,
	}
	if r.Category == "" {
		r.Category = project.NotAvailable
	}
	r.Date, r.Dated = ParseDate(p.Date, loc)
	return r
}

// Filter keeps the records inside w. Undated records only pass an unbounded window.
func Filter(records []Record, w Window) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if w.Unbounded || (r.Dated && w.Contains(r.Date)) {
			out = append(out, r)
		}
	}
	return out
}

func single(s string) []string {
	if s == "" {
		return []string{project.NotAvailable}
	}
	return []string{s}
}

func ByCategory(r Record) []string { return single(r.Category) }
func ByBrand(r Record) []string    { return single(r.Brand) }
func ByStatus(r Record) []string   { return single(r.Status) }
func ByDivision(r Record) []string { return single(r.Division) }

// ByPlatform fans a record out to each of its platforms.
func ByPlatform(r Record) []string { return r.Platforms }

// ByMonth buckets dated records as "2006-01".
func ByMonth(r Record) []string {
	if !r.Dated {
		return nil
	}
	return []string{r.Date.Format("2006-01")}
}
