package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/project-tracker/internal"
)

type Range string

const (
	Range1M  Range = "1M"
	Range3M  Range = "3M"
	Range6M  Range = "6M"
	RangeYTD Range = "YTD"
	Range1Y  Range = "1Y"
	RangeAll Range = "All"
)

func (r Range) Valid() bool {
	switch r {
	case Range1M, Range3M, Range6M, RangeYTD, Range1Y, RangeAll:
		return true
	}
	return false
}

// Selector picks the records a chart covers. A quarter selector wins over
// Range when both are set.
type Selector struct {
	Range   Range
	Quarter int
	Year    int
}

func (s Selector) HasQuarter() bool {
	return s.Quarter >= 1 && s.Quarter <= 4
}

func (s Selector) String() string {
	if s.HasQuarter() {
		return fmt.Sprintf("Q%d %d", s.Quarter, s.Year)
	}
	if s.Range == "" {
		return string(RangeAll)
	}
	return string(s.Range)
}

// ParseSelector reads the range, quarter and year query values. Empty values
// mean "All"; a quarter without a year uses the current year.
func ParseSelector(rangeParam, quarterParam, yearParam string, now time.Time) (Selector, error) {
	sel := Selector{Range: RangeAll}

	if rangeParam = strings.TrimSpace(rangeParam); rangeParam != "" {
		r := Range(strings.ToUpper(rangeParam))
		if r == "ALL" {
			r = RangeAll
		}
		if !r.Valid() {
			return Selector{}, internal.NewValidationError(
				fmt.Sprintf("range must be one of 1M, 3M, 6M, YTD, 1Y, All; got %q", rangeParam),
				internal.ErrCodeInvalidWindow)
		}
		sel.Range = r
	}

	if quarterParam = strings.TrimSpace(quarterParam); quarterParam != "" {
		q, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(quarterParam), "Q"))
		if err != nil || q < 1 || q > 4 {
			return Selector{}, internal.NewValidationError(
				fmt.Sprintf("quarter must be Q1 to Q4; got %q", quarterParam),
				internal.ErrCodeInvalidQuarter)
		}
		sel.Quarter = q
		sel.Year = now.Year()
	}

	if yearParam = strings.TrimSpace(yearParam); yearParam != "" {
		y, err := strconv.Atoi(yearParam)
		if err != nil || y < 1 || y > 9999 {
			return Selector{}, internal.NewValidationError(
				fmt.Sprintf("year must be a number; got %q", yearParam),
				internal.ErrCodeInvalidWindow)
		}
		sel.Year = y
	}

	return sel, nil
}

// Window is an inclusive time span. An unbounded window contains everything.
type Window struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

func (w Window) Contains(t time.Time) bool {
	if w.Unbounded {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// Window resolves the selector against now. Relative windows run from their
// start up to and including now.
func (s Selector) Window(now time.Time) Window {
	if s.HasQuarter() {
		year := s.Year
		if year == 0 {
			year = now.Year()
		}
		return quarterWindow(year, s.Quarter, now.Location())
	}

	var start time.Time
	switch s.Range {
	case Range1M:
		start = now.AddDate(0, -1, 0)
	case Range3M:
		start = now.AddDate(0, -3, 0)
	case Range6M:
		start = now.AddDate(0, -6, 0)
	case RangeYTD:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case Range1Y:
		start = now.AddDate(-1, 0, 0)
	default:
		return Window{Unbounded: true}
	}
	return Window{Start: start, End: now}
}

func quarterWindow(year, quarter int, loc *time.Location) Window {
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 3, 0).Add(-time.Nanosecond)
	return Window{Start: start, End: end}
}

// Previous is the window of equal length ending just before this one; for a
// quarter selector it is the previous calendar quarter. "All" has none.
func (s Selector) Previous(now time.Time) (Window, bool) {
	if s.HasQuarter() {
		year, q := s.Year, s.Quarter-1
		if year == 0 {
			year = now.Year()
		}
		if q == 0 {
			year, q = year-1, 4
		}
		return quarterWindow(year, q, now.Location()), true
	}

	cur := s.Window(now)
	if cur.Unbounded {
		return Window{}, false
	}
	length := cur.End.Sub(cur.Start)
	end := cur.Start.Add(-time.Nanosecond)
	return Window{Start: end.Add(-length), End: end}, true
}

func (s Selector) Contains(t, now time.Time) bool {
	return s.Window(now).Contains(t)
}

// InWindow reports whether a stored date string falls inside the selector.
// Dates that cannot be parsed never match a bounded window.
func InWindow(date string, sel Selector, now time.Time) bool {
	w := sel.Window(now)
	if w.Unbounded {
		return true
	}
	t, ok := ParseDate(date, now.Location())
	if !ok {
		return false
	}
	return w.Contains(t)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01",
}

// ParseDate accepts the date formats found in project records. Values without
// a zone are read in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
