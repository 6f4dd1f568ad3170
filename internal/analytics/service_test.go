package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracker/internal/analytics"
	"github.com/frahmantamala/project-tracker/internal/project"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

type stubSource struct {
	projects []*project.Project
	err      error
}

func (s *stubSource) Current(ctx context.Context) (project.Snapshot, error) {
	if s.err != nil {
		return project.Snapshot{}, s.err
	}
	return project.Snapshot{Projects: s.projects, Version: 1}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sample() []*project.Project {
	return []*project.Project{
		{ID: 1, Date: "2024-05-01", CategoryName: "Tech", Brand: "Acme", Status: project.StatusPublished, Platforms: project.StringList{"YouTube", "TikTok"}, Division: "Marketing", Views: 100, Likes: 10},
		{ID: 2, Date: "2024-04-20", CategoryName: "Tech", Brand: "Acme", Status: project.StatusEditing, Platforms: project.StringList{"YouTube"}, Division: "Marketing", Views: 50},
		{ID: 3, Date: "2024-03-25", CategoryName: "Food", Brand: "Bolt", Status: project.StatusPublished, Platforms: project.StringList{"Instagram"}, Division: "Sales", Views: 40},
		{ID: 4, Date: "2023-11-02", CategoryName: "Travel", Brand: "Cove", Status: project.StatusDelivered, Views: 5},
		{ID: 5, Date: "not a date", CategoryName: "", Brand: "", Status: project.StatusDevelopment, Views: 1},
	}
}

var _ = Describe("Analytics Service", func() {
	var (
		source  *stubSource
		service *analytics.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		source = &stubSource{projects: sample()}
		service = analytics.NewService(source, quietLogger()).WithClock(func() time.Time { return now })
	})

	Describe("Summary", func() {
		It("totals the window and compares with the previous one", func() {
			s, err := service.Summary(ctx, analytics.Selector{Range: analytics.Range1M})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Projects).To(Equal(int64(2)))
			Expect(s.Views).To(Equal(int64(150)))
			Expect(s.Previous).NotTo(BeNil())
			Expect(s.Previous.Views).To(Equal(int64(40)))
			Expect(s.Change.Views).To(BeNumerically("~", 275.0, 0.001))
			Expect(s.Change.Projects).To(Equal(100.0))
			Expect(s.From).NotTo(BeNil())
		})

		It("reports 0% when the previous window is empty", func() {
			s, err := service.Summary(ctx, analytics.Selector{Quarter: 2, Year: 2024})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Projects).To(Equal(int64(2)))

			s, err = service.Summary(ctx, analytics.Selector{Quarter: 4, Year: 2023})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Projects).To(Equal(int64(1)))
			Expect(s.Previous.Count).To(BeZero())
			Expect(s.Change.Views).To(Equal(0.0))
		})

		It("counts every project for All, dated or not", func() {
			s, err := service.Summary(ctx, analytics.Selector{Range: analytics.RangeAll})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Projects).To(Equal(int64(5)))
			Expect(s.Previous).To(BeNil())
			Expect(s.From).To(BeNil())
		})

		It("surfaces snapshot failures as 500", func() {
			source.err = errors.New("db down")
			_, err := service.Summary(ctx, analytics.Selector{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Breakdown", func() {
		It("ranks categories with shares", func() {
			b, err := service.Breakdown(ctx, analytics.Selector{Range: analytics.RangeAll}, analytics.DimensionCategory, analytics.MetricViews, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Total).To(Equal(int64(196)))
			Expect(b.Groups[0].Key).To(Equal("Tech"))
			Expect(b.Groups[0].Views).To(Equal(int64(150)))
			Expect(b.Groups[len(b.Groups)-1].Key).To(Equal("N/A"))
		})

		It("fans out platforms", func() {
			b, err := service.Breakdown(ctx, analytics.Selector{Range: analytics.RangeAll}, analytics.DimensionPlatform, analytics.MetricCount, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Groups[0].Key).To(Equal("YouTube"))
			Expect(b.Groups[0].Count).To(Equal(int64(2)))
			Expect(b.Total).To(Equal(int64(4)))
		})

		It("folds the tail into Others when limited", func() {
			b, err := service.Breakdown(ctx, analytics.Selector{Range: analytics.RangeAll}, analytics.DimensionBrand, analytics.MetricCount, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Groups).To(HaveLen(2))
			Expect(b.Groups[0].Key).To(Equal("Acme"))
			Expect(b.Groups[1].Key).To(Equal(analytics.OthersKey))
			Expect(b.Groups[1].Count).To(Equal(int64(3)))
		})

		It("rejects an unknown dimension", func() {
			_, err := service.Breakdown(ctx, analytics.Selector{}, "colour", analytics.MetricCount, 0)
			Expect(err).To(HaveOccurred())
		})
	})

	It("builds an ascending monthly timeline of dated projects", func() {
		t, err := service.Timeline(ctx, analytics.Selector{Range: analytics.RangeAll})
		Expect(err).NotTo(HaveOccurred())
		Expect(groupKeys(t.Buckets)).To(Equal([]string{"2023-11", "2024-03", "2024-04", "2024-05"}))
	})
})

var _ = Describe("Analytics Handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		service := analytics.NewService(&stubSource{projects: sample()}, quietLogger()).WithClock(func() time.Time { return now })
		handler := analytics.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, service)

		router = chi.NewRouter()
		router.Get("/analytics/summary", handler.Summary)
		router.Get("/analytics/categories", handler.Categories)
		router.Get("/analytics/platforms", handler.Platforms)
		router.Get("/analytics/brands", handler.Brands)
		router.Get("/analytics/status", handler.Status)
		router.Get("/analytics/divisions", handler.Divisions)
		router.Get("/analytics/timeline", handler.Timeline)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	It("serves the summary for a quarter", func() {
		w := get("/analytics/summary?quarter=Q2&year=2024")
		Expect(w.Code).To(Equal(http.StatusOK))
		var s analytics.Summary
		Expect(json.Unmarshal(w.Body.Bytes(), &s)).To(Succeed())
		Expect(s.Projects).To(Equal(int64(2)))
		Expect(s.Window).To(Equal("Q2 2024"))
	})

	It("rejects an unknown range", func() {
		w := get("/analytics/summary?range=10Y")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]).To(ContainSubstring("range"))
	})

	It("honours metric and limit", func() {
		w := get("/analytics/categories?metric=views&limit=1")
		Expect(w.Code).To(Equal(http.StatusOK))
		var b analytics.Breakdown
		Expect(json.Unmarshal(w.Body.Bytes(), &b)).To(Succeed())
		Expect(b.Metric).To(Equal(analytics.MetricViews))
		Expect(b.Groups).To(HaveLen(2))
		Expect(b.Groups[1].Key).To(Equal(analytics.OthersKey))
		Expect(b.Groups[1].Views).To(Equal(int64(46)))
	})

	It("validates metric and limit", func() {
		Expect(get("/analytics/platforms?metric=shares").Code).To(Equal(http.StatusBadRequest))
		Expect(get("/analytics/brands?limit=0").Code).To(Equal(http.StatusBadRequest))
		Expect(get("/analytics/brands?limit=x").Code).To(Equal(http.StatusBadRequest))
	})

	It("breaks projects down by division", func() {
		w := get("/analytics/divisions?range=All&metric=views")
		Expect(w.Code).To(Equal(http.StatusOK))
		var b analytics.Breakdown
		Expect(json.Unmarshal(w.Body.Bytes(), &b)).To(Succeed())
		Expect(b.Groups).To(HaveLen(3))
		Expect(b.Groups[0].Key).To(Equal("Marketing"))
		Expect(b.Groups[0].Views).To(Equal(int64(150)))
		Expect(b.Groups[1].Key).To(Equal("Sales"))
		Expect(b.Total).To(Equal(int64(196)))

		Expect(get("/analytics/divisions?limit=0").Code).To(Equal(http.StatusBadRequest))
	})

	It("lists every status and the timeline", func() {
		w := get("/analytics/status")
		Expect(w.Code).To(Equal(http.StatusOK))
		var b analytics.Breakdown
		Expect(json.Unmarshal(w.Body.Bytes(), &b)).To(Succeed())
		Expect(b.Groups).To(HaveLen(4))

		w = get("/analytics/timeline?range=YTD")
		Expect(w.Code).To(Equal(http.StatusOK))
		var t analytics.Timeline
		Expect(json.Unmarshal(w.Body.Bytes(), &t)).To(Succeed())
		Expect(groupKeys(t.Buckets)).To(Equal([]string{"2024-03", "2024-04", "2024-05"}))
	})
})
