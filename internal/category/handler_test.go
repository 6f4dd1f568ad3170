package category_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/project-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/project-tracker/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/project-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    category.RepositoryAPI
		service *category.Service
		handler *category.Handler
		router  *chi.Mux
		slogger *slog.Logger
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&categoryDatamodel.Category{})
		Expect(err).NotTo(HaveOccurred())

		repo = categoryPostgres.NewCategoryRepository(db)
		service = category.NewService(repo, nil, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler = category.NewHandler(baseHandler, service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Get("/categories/{id}", handler.GetCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)

		for _, name := range []string{"Tutorial", "Review"} {
			Expect(repo.Create(context.Background(), category.ToDataModel(category.NewCategory(name)))).To(Succeed())
		}
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should handle GET /categories request successfully", func() {
		w := do(http.MethodGet, "/categories", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())

		names := make([]string, len(response.Categories))
		for i, cat := range response.Categories {
			names[i] = cat.Name
		}
		Expect(names).To(Equal([]string{"Review", "Tutorial"}))
	})

	It("creates a category with category_name", func() {
		w := do(http.MethodPost, "/categories", `{"category_name":"Vlog"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var c category.Category
		Expect(json.NewDecoder(w.Body).Decode(&c)).To(Succeed())
		Expect(c.Name).To(Equal("Vlog"))
		Expect(c.ID).To(BeNumerically(">", 0))
	})

	It("returns 400 with an error body when category_name is missing", func() {
		w := do(http.MethodPost, "/categories", `{}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]).To(ContainSubstring("category_name"))
	})

	It("updates and deletes by path id", func() {
		w := do(http.MethodPut, "/categories/1", `{"category_name":"Tutorials"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/categories/1", "")
		var c category.Category
		Expect(json.NewDecoder(w.Body).Decode(&c)).To(Succeed())
		Expect(c.Name).To(Equal("Tutorials"))

		Expect(do(http.MethodDelete, "/categories/1", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodDelete, "/categories/1", "").Code).To(Equal(http.StatusNotFound))
	})

	It("returns 409 on a duplicate name", func() {
		w := do(http.MethodPost, "/categories", `{"category_name":"Review"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})
})
