package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/project-tracker/internal"
	counterDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/counter"
	roleDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/user"
	counterPostgres "github.com/frahmantamala/project-tracker/internal/counter/postgres"
	"github.com/frahmantamala/project-tracker/internal/role"
	rolePostgres "github.com/frahmantamala/project-tracker/internal/role/postgres"
	"github.com/frahmantamala/project-tracker/internal/transport"
	"github.com/frahmantamala/project-tracker/internal/user"
	userPostgres "github.com/frahmantamala/project-tracker/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("User Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{}, &roleDatamodel.Role{}, &counterDatamodel.Counter{})).To(Succeed())

		roles := role.NewService(rolePostgres.NewRoleRepository(db), nil, quietLogger())
		_, err = roles.Create(context.Background(), role.RoleRequest{Name: "Employee"})
		Expect(err).NotTo(HaveOccurred())

		svc := user.NewService(userPostgres.NewUserRepository(db), counterPostgres.NewCounterRepository(db), roles, nil, bcrypt.MinCost, quietLogger())
		handler := user.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, svc)

		router = chi.NewRouter()
		router.Get("/users", handler.ListUsers)
		router.Post("/users", handler.CreateUser)
		router.Put("/users", handler.UpdateUser)
		router.Delete("/users", handler.DeleteUser)
		router.Get("/users/me", handler.GetCurrentUser)
		router.Get("/users/{id}", handler.GetUser)
	})

	do := func(method, path, body string, uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if uid != "" {
			req = req.WithContext(internal.ContextWithUserID(req.Context(), uid))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("creates a user without ever echoing the password", func() {
		w := do(http.MethodPost, "/users", `{"uid":"u-1","name":"Dana","email":"dana@example.com","role":"Employee","password":"longenough"}`, "")
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).NotTo(ContainSubstring("longenough"))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		var u user.User
		Expect(json.Unmarshal(w.Body.Bytes(), &u)).To(Succeed())
		Expect(u.ID).To(Equal(int64(1)))
	})

	It("supports update and delete with the id in the body", func() {
		Expect(do(http.MethodPost, "/users", `{"name":"Dana","email":"dana@example.com","role":"Employee","password":"longenough"}`, "").Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPut, "/users", `{"id":1,"name":"Dana R"}`, "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/users/1", "", "")
		var u user.User
		Expect(json.Unmarshal(w.Body.Bytes(), &u)).To(Succeed())
		Expect(u.Name).To(Equal("Dana R"))

		Expect(do(http.MethodDelete, "/users", `{"id":1}`, "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/users/1", "", "").Code).To(Equal(http.StatusNotFound))
	})

	It("returns 400 when the role does not exist", func() {
		w := do(http.MethodPost, "/users", `{"name":"X","email":"x@example.com","role":"Ghost","password":"longenough"}`, "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]).To(ContainSubstring("Ghost"))
	})

	It("returns 400 for an invalid email", func() {
		w := do(http.MethodPost, "/users", `{"name":"X","email":"nope","role":"Employee","password":"longenough"}`, "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 when delete has no id", func() {
		Expect(do(http.MethodDelete, "/users", `{}`, "").Code).To(Equal(http.StatusBadRequest))
	})

	It("resolves /users/me from the request identity", func() {
		Expect(do(http.MethodPost, "/users", `{"uid":"me-uid","name":"Me","email":"me@example.com","role":"Employee","password":"longenough"}`, "").Code).To(Equal(http.StatusCreated))
		w := do(http.MethodGet, "/users/me", "", "me-uid")
		Expect(w.Code).To(Equal(http.StatusOK))
		var u user.User
		Expect(json.Unmarshal(w.Body.Bytes(), &u)).To(Succeed())
		Expect(u.Email).To(Equal("me@example.com"))

		Expect(do(http.MethodGet, "/users/me", "", "").Code).To(Equal(http.StatusUnauthorized))
	})
})
