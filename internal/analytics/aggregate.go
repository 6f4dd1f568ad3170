package analytics

import (
	"fmt"
	"sort"
	"strings"
)

// Metric is the value groups are ranked and charted by.
type Metric string

const (
	MetricCount    Metric = "count"
	MetricViews    Metric = "views"
	MetricLikes    Metric = "likes"
	MetricComments Metric = "comments"
)

func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricCount, nil
	}
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MetricCount, MetricViews, MetricLikes, MetricComments:
		return m, nil
	}
	return "", fmt.Errorf("metric must be one of count, views, likes, comments; got %q", s)
}

// OthersKey names the residual group TopN appends.
const OthersKey = "Others"

type Group struct {
	Key      string `json:"key"`
	Count    int64  `json:"count"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
}

func (g Group) Value(m Metric) int64 {
	switch m {
	case MetricViews:
		return g.Views
	case MetricLikes:
		return g.Likes
	case MetricComments:
		return g.Comments
	default:
		return g.Count
	}
}

func (g *Group) add(r Record) {
	g.Count++
	g.Views += nonNegative(r.Views)
	g.Likes += nonNegative(r.Likes)
	g.Comments += nonNegative(r.Comments)
}

func (g *Group) merge(o Group) {
	g.Count += o.Count
	g.Views += o.Views
	g.Likes += o.Likes
	g.Comments += o.Comments
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// KeyFunc returns the groups a record belongs to. Several keys fan the record
// out; no keys leave it out of the aggregate.
type KeyFunc func(Record) []string

// Aggregate groups records by key. A record contributes once to each distinct
// key it yields. Groups come back in order of first appearance.
func Aggregate(records []Record, key KeyFunc) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, r := range records {
		seen := make(map[string]struct{}, 1)
		for _, k := range key(r) {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}

			i, ok := index[k]
			if !ok {
				i = len(groups)
				index[k] = i
				groups = append(groups, Group{Key: k})
			}
			groups[i].add(r)
		}
	}
	return groups
}

// Totals sums every record once, whatever its keys.
func Totals(records []Record) Group {
	var g Group
	for _, r := range records {
		g.add(r)
	}
	return g
}

// SortGroups orders groups by metric, ties broken by key ascending.
func SortGroups(groups []Group, m Metric, descending bool) {
	sort.SliceStable(groups, func(i, j int) bool {
		vi, vj := groups[i].Value(m), groups[j].Value(m)
		if vi != vj {
			if descending {
				return vi > vj
			}
			return vi < vj
		}
		return groups[i].Key < groups[j].Key
	})
}

// SortByKey orders groups by key ascending, used for time buckets.
func SortByKey(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
}

// TopN keeps the n largest groups by m and folds the rest into an "Others"
// group, appended only when its m value is non-zero.
func TopN(groups []Group, n int, m Metric) []Group {
	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	SortGroups(sorted, m, true)

	if n < 0 {
		n = 0
	}
	if len(sorted) <= n {
		return sorted
	}

	out := make([]Group, n, n+1)
	copy(out, sorted[:n])

	others := Group{Key: OthersKey}
	for _, g := range sorted[n:] {
		others.merge(g)
	}
	if others.Value(m) != 0 {
		out = append(out, others)
	}
	return out
}

// PercentChange from prev to cur. A zero previous value reports 0.
func PercentChange(cur, prev int64) float64 {
	if prev == 0 {
		return 0
	}
	return float64(cur-prev) / float64(prev) * 100
}

// Share is part as a percentage of total; 0 when total is 0.
func Share(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
