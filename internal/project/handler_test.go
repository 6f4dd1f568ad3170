package project_test

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

	"github.com/frahmantamala/project-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/project-tracker/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/category"
	projectDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/project"
	"github.com/frahmantamala/project-tracker/internal/project"
	projectPostgres "github.com/frahmantamala/project-tracker/internal/project/postgres"
	"github.com/frahmantamala/project-tracker/internal/transport"
	"github.com/frahmantamala/project-tracker/internal/videometrics"
)

var _ = Describe("Project Handler Integration", func() {
	var (
		router     *chi.Mux
		categories *category.Service
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&projectDatamodel.Project{}, &categoryDatamodel.Category{})).To(Succeed())

		categories = category.NewService(categoryPostgres.NewCategoryRepository(db), nil, quietLogger())
		_, err = categories.Create(context.Background(), "Tech")
		Expect(err).NotTo(HaveOccurred())

		metrics := &stubMetrics{stats: &videometrics.Stats{Views: 7, Likes: 3, Comments: 1}}
		svc := project.NewService(projectPostgres.NewProjectRepository(db), categories, metrics, nil, quietLogger())
		handler := project.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, svc)

		router = chi.NewRouter()
		router.Get("/projects", handler.ListProjects)
		router.Post("/projects", handler.CreateProject)
		router.Get("/projects/{id}", handler.GetProject)
		router.Put("/projects/{id}", handler.UpdateProject)
		router.Delete("/projects/{id}", handler.DeleteProject)
		router.Patch("/projects/{id}/status", handler.UpdateStatus)
		router.Post("/projects/{id}/metrics", handler.RefreshMetrics)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	It("creates a project from legacy shaped fields", func() {
		w := do(http.MethodPost, "/projects", `{
			"projectName": "Spring launch",
			"projectStatus": "Content Proposal",
			"date": "2024-04-02",
			"quarter": "Q2",
			"category": 1,
			"brand": "Acme",
			"platform": "YouTube",
			"platformLink": {"YouTube": "https://youtu.be/xyz"},
			"sow": {"sow": "Reel", "content": "30s"},
			"division": "Marketing"
		}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		body := decode(w)
		Expect(body["category"]).To(Equal("Tech"))
		Expect(body["platform"]).To(Equal([]interface{}{"YouTube"}))
		Expect(body["sow"]).To(Equal([]interface{}{map[string]interface{}{"sow": "Reel", "content": "30s"}}))
		Expect(body["views"]).To(BeEquivalentTo(7))
	})

	It("lists projects with categories resolved at read time", func() {
		Expect(do(http.MethodPost, "/projects", `{"projectName":"A","projectStatus":"Ongoing","category":1}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/projects", `{"projectName":"B","projectStatus":"Ongoing","category":"Old label"}`).Code).To(Equal(http.StatusCreated))

		Expect(categories.Delete(context.Background(), 1)).To(Succeed())

		w := do(http.MethodGet, "/projects", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Projects []map[string]interface{} `json:"projects"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Projects).To(HaveLen(2))
		Expect(resp.Projects[0]["category"]).To(Equal("Category not found"))
		Expect(resp.Projects[1]["category"]).To(Equal("Old label"))
	})

	It("validates status and required fields", func() {
		w := do(http.MethodPost, "/projects", `{"projectName":"A","projectStatus":"Archived"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(w)["error"]).To(ContainSubstring("projectStatus"))

		w = do(http.MethodPost, "/projects", `{"projectStatus":"Ongoing"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(w)["error"]).To(Equal("projectName is required"))

		w = do(http.MethodPost, "/projects", `{"projectName":"A","projectStatus":"Ongoing","quarter":"Q5"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = do(http.MethodPost, "/projects", `{"projectName":"A","projectStatus":"Ongoing","sow":7}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("patches status, refreshes metrics and deletes", func() {
		Expect(do(http.MethodPost, "/projects", `{"projectName":"A","projectStatus":"Editing","platform":["YouTube"],"platformLink":{"YouTube":"https://youtu.be/a"}}`).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPatch, "/projects/1/status", `{"projectStatus":"Published"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["projectStatus"]).To(Equal("Published"))

		w = do(http.MethodPost, "/projects/1/metrics", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		Expect(do(http.MethodDelete, "/projects/1", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/projects/1", "").Code).To(Equal(http.StatusNotFound))
	})

	It("replaces a project with PUT", func() {
		Expect(do(http.MethodPost, "/projects", `{"projectName":"A","projectStatus":"Editing","category":1}`).Code).To(Equal(http.StatusCreated))
		w := do(http.MethodPut, "/projects/1", `{"projectName":"A2","projectStatus":"Delivered","category":"Free text","sow":"Plain scope"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		body := decode(w)
		Expect(body["projectName"]).To(Equal("A2"))
		Expect(body["category"]).To(Equal("Free text"))
		Expect(body["sow"]).To(Equal("Plain scope"))
	})

	It("returns 400 for a malformed id", func() {
		Expect(do(http.MethodGet, "/projects/abc", "").Code).To(Equal(http.StatusBadRequest))
	})
})
