package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

type recordingToucher struct {
	mu   sync.Mutex
	uids []string
}

func (r *recordingToucher) Touch(ctx context.Context, uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uids = append(r.uids, uid)
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		router  *chi.Mux
		seen    *recordingToucher
		service *Service
	)

	ginkgo.BeforeEach(func() {
		tokenGen := NewJWTTokenGenerator("test-access-secret-0123", "test-refresh-secret-0123", 15*time.Minute, 24*time.Hour)
		service = NewService(newMockCredentialStore(), tokenGen, quietLogger())
		seen = &recordingToucher{}
		handler := NewHandler(&transport.BaseHandler{Logger: quietLogger()}, service, seen)

		router = chi.NewRouter()
		router.Use(handler.IdentityMiddleware)
		router.Post("/auth/login", handler.Login)
		router.Post("/auth/refresh", handler.RefreshToken)
		router.Post("/auth/logout", handler.Logout)
		router.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(internal.UserIDFromContext(r.Context())))
		})
	})

	do := func(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func() AuthTokens {
		w := do(http.MethodPost, "/auth/login", `{"email":"editor@example.com","password":"correct_password"}`, nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		var tokens AuthTokens
		gomega.Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(gomega.Succeed())
		return tokens
	}

	ginkgo.It("logs in and resolves the bearer token to the uid", func() {
		tokens := login()
		w := do(http.MethodGet, "/whoami", "", map[string]string{"Authorization": "Bearer " + tokens.AccessToken})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.Equal("uid-editor"))
		gomega.Expect(seen.uids).To(gomega.Equal([]string{"uid-editor"}))
	})

	ginkgo.It("accepts the Authorization-UID header", func() {
		w := do(http.MethodGet, "/whoami", "", map[string]string{HeaderUID: " uid-admin "})
		gomega.Expect(w.Body.String()).To(gomega.Equal("uid-admin"))
	})

	ginkgo.It("passes anonymous requests through without identity", func() {
		w := do(http.MethodGet, "/whoami", "", nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.BeEmpty())
		gomega.Expect(seen.uids).To(gomega.BeEmpty())
	})

	ginkgo.It("rejects a bad bearer token with 401", func() {
		w := do(http.MethodGet, "/whoami", "", map[string]string{"Authorization": "Bearer garbage"})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"error"`))
	})

	ginkgo.It("returns 401 for wrong credentials", func() {
		w := do(http.MethodPost, "/auth/login", `{"email":"editor@example.com","password":"bad"}`, nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("returns 400 for a malformed login", func() {
		w := do(http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`, nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("email must be a valid email"))
	})

	ginkgo.It("refreshes tokens", func() {
		tokens := login()
		w := do(http.MethodPost, "/auth/refresh", `{"refresh_token":"`+tokens.RefreshToken+`"}`, nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("logs out with a valid token only", func() {
		tokens := login()
		w := do(http.MethodPost, "/auth/logout", "", map[string]string{"Authorization": "Bearer " + tokens.AccessToken})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusNoContent))

		w = do(http.MethodPost, "/auth/logout", "", nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})
})
