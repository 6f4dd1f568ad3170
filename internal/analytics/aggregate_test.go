package analytics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracker/internal/analytics"
)

func groupKeys(groups []analytics.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}

var _ = Describe("Aggregator", func() {
	It("groups by category, sorts by views and reports 0% against an empty window", func() {
		records := []analytics.Record{
			{Category: "A", Views: 10},
			{Category: "A", Views: 5},
			{Category: "B", Views: 1},
		}

		groups := analytics.Aggregate(records, analytics.ByCategory)
		analytics.SortGroups(groups, analytics.MetricViews, true)

		Expect(groups).To(HaveLen(2))
		Expect(groups[0].Key).To(Equal("A"))
		Expect(groups[0].Views).To(Equal(int64(15)))
		Expect(groups[0].Count).To(Equal(int64(2)))
		Expect(groups[1].Key).To(Equal("B"))
		Expect(groups[1].Views).To(Equal(int64(1)))

		Expect(analytics.PercentChange(analytics.Totals(records).Views, analytics.Totals(nil).Views)).To(Equal(0.0))
	})

	It("fans array keys out while totals count each record once", func() {
		records := []analytics.Record{
			{Platforms: []string{"YouTube", "TikTok"}, Views: 10},
			{Platforms: []string{"YouTube", "YouTube"}, Views: 4},
			{Platforms: nil, Views: 100},
		}

		groups := analytics.Aggregate(records, analytics.ByPlatform)
		Expect(groupKeys(groups)).To(Equal([]string{"YouTube", "TikTok"}))
		Expect(groups[0].Count).To(Equal(int64(2)))
		Expect(groups[0].Views).To(Equal(int64(14)))
		Expect(groups[1].Views).To(Equal(int64(10)))

		total := analytics.Totals(records)
		Expect(total.Count).To(Equal(int64(3)))
		Expect(total.Views).To(Equal(int64(114)))
	})

	It("treats negative counters as zero", func() {
		groups := analytics.Aggregate([]analytics.Record{{Brand: "X", Views: -5, Likes: 2}}, analytics.ByBrand)
		Expect(groups[0].Views).To(BeZero())
		Expect(groups[0].Likes).To(Equal(int64(2)))
	})

	It("files empty single values under N/A", func() {
		groups := analytics.Aggregate([]analytics.Record{{}, {Brand: "Acme"}}, analytics.ByBrand)
		Expect(groupKeys(groups)).To(Equal([]string{"N/A", "Acme"}))
	})

	Describe("TopN", func() {
		groups := []analytics.Group{
			{Key: "a", Views: 70}, {Key: "b", Views: 60}, {Key: "c", Views: 50},
			{Key: "d", Views: 40}, {Key: "e", Views: 30}, {Key: "f", Views: 20}, {Key: "g", Views: 10},
		}

		It("keeps five and folds the remainder into Others", func() {
			top := analytics.TopN(groups, 5, analytics.MetricViews)
			Expect(groupKeys(top)).To(Equal([]string{"a", "b", "c", "d", "e", analytics.OthersKey}))
			Expect(top[5].Views).To(Equal(int64(30)))
		})

		It("omits Others when the remainder sums to zero", func() {
			withZeros := append([]analytics.Group{}, groups[:5]...)
			withZeros = append(withZeros, analytics.Group{Key: "z1"}, analytics.Group{Key: "z2"})
			top := analytics.TopN(withZeros, 5, analytics.MetricViews)
			Expect(groupKeys(top)).To(Equal([]string{"a", "b", "c", "d", "e"}))
		})

		It("returns everything when there are at most n groups", func() {
			top := analytics.TopN(groups[:3], 5, analytics.MetricViews)
			Expect(top).To(HaveLen(3))
		})

		It("does not reorder the input", func() {
			in := []analytics.Group{{Key: "small", Count: 1}, {Key: "big", Count: 9}}
			analytics.TopN(in, 1, analytics.MetricCount)
			Expect(in[0].Key).To(Equal("small"))
		})
	})

	It("computes shares and changes", func() {
		Expect(analytics.Share(25, 100)).To(Equal(25.0))
		Expect(analytics.Share(5, 0)).To(Equal(0.0))
		Expect(analytics.PercentChange(150, 100)).To(Equal(50.0))
		Expect(analytics.PercentChange(50, 100)).To(Equal(-50.0))
	})

	It("parses metrics", func() {
		m, err := analytics.ParseMetric("")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(analytics.MetricCount))
		m, err = analytics.ParseMetric("Views")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(analytics.MetricViews))
		_, err = analytics.ParseMetric("shares")
		Expect(err).To(HaveOccurred())
	})
})
