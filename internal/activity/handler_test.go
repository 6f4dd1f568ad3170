package activity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/activity"
	activityPostgres "github.com/frahmantamala/project-tracker/internal/activity/postgres"
	activityDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/activity"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

var _ = Describe("Activity Handler Integration", func() {
	var (
		router *chi.Mux
		asUser func(http.Handler) http.Handler
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&activityDatamodel.ActivityLog{})).To(Succeed())

		service := activity.NewService(activityPostgres.NewActivityRepository(db), quietLogger())
		handler := activity.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, service)

		asUser = func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if uid := r.Header.Get("X-Test-UID"); uid != "" {
					r = r.WithContext(internal.ContextWithUserID(r.Context(), uid))
				}
				next.ServeHTTP(w, r)
			})
		}

		router = chi.NewRouter()
		router.Use(asUser)
		router.Get("/activity", handler.ListActivity)
		router.Post("/activity", handler.CreateActivity)

		_, err = service.Record(context.Background(), "Older", "", "u-0")
		Expect(err).NotTo(HaveOccurred())
	})

	do := func(method, path, body, uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if uid != "" {
			req.Header.Set("X-Test-UID", uid)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("creates an entry authored by the caller", func() {
		w := do(http.MethodPost, "/activity", `{"activity_title":"Shot b-roll","activity_description":"day 2"}`, "u-5")
		Expect(w.Code).To(Equal(http.StatusCreated))

		var a activity.Activity
		Expect(json.NewDecoder(w.Body).Decode(&a)).To(Succeed())
		Expect(a.ByUser).To(Equal("u-5"))
		Expect(a.Description).To(Equal("day 2"))
	})

	It("reads back the list newest first", func() {
		Expect(do(http.MethodPost, "/activity", `{"activity_title":"Newer"}`, "u-5").Code).To(Equal(http.StatusCreated))

		w := do(http.MethodGet, "/activity", "", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp activity.ActivitiesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Activities).To(HaveLen(2))
		Expect(resp.Activities[0].Title).To(Equal("Newer"))
		Expect(resp.Activities[1].Title).To(Equal("Older"))
	})

	It("honours the limit parameter", func() {
		Expect(do(http.MethodPost, "/activity", `{"activity_title":"Newer"}`, "u-5").Code).To(Equal(http.StatusCreated))

		w := do(http.MethodGet, "/activity?limit=1", "", "")
		var resp activity.ActivitiesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Activities).To(HaveLen(1))
	})

	It("rejects a bad limit", func() {
		Expect(do(http.MethodGet, "/activity?limit=abc", "", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("requires a title", func() {
		w := do(http.MethodPost, "/activity", `{"activity_description":"no title"}`, "u-5")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("activity_title is required"))
	})

	It("requires an identity to write", func() {
		w := do(http.MethodPost, "/activity", `{"activity_title":"x"}`, "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
