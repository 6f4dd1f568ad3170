package role_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	roleDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/project-tracker/internal/role"
	rolePostgres "github.com/frahmantamala/project-tracker/internal/role/postgres"
	"github.com/frahmantamala/project-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Role Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&roleDatamodel.Role{}, &userDatamodel.User{})).To(Succeed())

		service := role.NewService(rolePostgres.NewRoleRepository(db), nil, quietLogger())
		handler := role.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, service)

		router = chi.NewRouter()
		router.Get("/roles", handler.ListRoles)
		router.Post("/roles", handler.CreateRole)
		router.Get("/roles/{id}", handler.GetRole)
		router.Put("/roles/{id}", handler.UpdateRole)
		router.Delete("/roles/{id}", handler.DeleteRole)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("creates, reads, updates and deletes a role", func() {
		w := do(http.MethodPost, "/roles", `{"name":"Employee","permissions":["View projects"]}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created role.Role
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.Permissions).To(Equal([]string{"View projects"}))

		w = do(http.MethodGet, "/roles/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPut, "/roles/1", `{"name":"Employee","permissions":["View projects","Add projects"]}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated role.Role
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Permissions).To(ConsistOf("View projects", "Add projects"))

		w = do(http.MethodGet, "/roles", "")
		var list role.RolesResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Roles).To(HaveLen(1))

		w = do(http.MethodDelete, "/roles/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		w = do(http.MethodGet, "/roles/1", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 400 with an error body for unknown permissions", func() {
		w := do(http.MethodPost, "/roles", `{"name":"X","permissions":["Launch rockets"]}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]).To(ContainSubstring("Launch rockets"))
	})

	It("returns 400 when name is missing", func() {
		w := do(http.MethodPost, "/roles", `{"permissions":[]}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 for a non-numeric id", func() {
		w := do(http.MethodGet, "/roles/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 409 for a duplicate name", func() {
		Expect(do(http.MethodPost, "/roles", `{"name":"Admin"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/roles", `{"name":"Admin"}`).Code).To(Equal(http.StatusConflict))
	})
})
