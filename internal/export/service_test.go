package export_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/export"
	"github.com/frahmantamala/project-tracker/internal/project"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

type stubSource struct {
	projects []*project.Project
	err      error
}

func (s *stubSource) Current(ctx context.Context) (project.Snapshot, error) {
	return project.Snapshot{Projects: s.projects}, s.err
}

type memoryStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
	err          error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if m.err != nil {
		return m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.objects[key] = buf.Bytes()
	m.contentTypes[key] = contentType
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var projects = []*project.Project{
	{ID: 1, Name: "One, with comma", Status: project.StatusOngoing, CategoryName: "Tech"},
	{ID: 2, Name: "Two", Status: project.StatusEditing, SOW: project.CustomSOW("scope")},
}

var _ = Describe("Export Service", func() {
	var (
		store   *memoryStore
		source  *stubSource
		service *export.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = newMemoryStore()
		source = &stubSource{projects: projects}
		service = export.NewService(source, store, "/exports/", quietLogger())
	})

	It("renders the current snapshot", func() {
		doc, err := service.ProjectsCSV(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Rows).To(Equal(2))
		Expect(doc.Filename).To(MatchRegexp(`^projects-\d{8}-\d{6}\.csv$`))
		Expect(parse(doc.Body)).To(HaveLen(3))
	})

	It("archives to the object store under a dated key", func() {
		a, err := service.ArchiveProjects(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Key).To(MatchRegexp(`^exports/\d{4}/\d{2}/[0-9a-f-]{36}_projects-.*\.csv$`))
		Expect(a.Rows).To(Equal(2))
		Expect(store.objects).To(HaveKey(a.Key))
		Expect(store.contentTypes[a.Key]).To(Equal(export.ContentTypeCSV))
		Expect(len(store.objects[a.Key])).To(Equal(a.Size))
	})

	It("refuses to archive without a store", func() {
		service = export.NewService(source, nil, "", quietLogger())
		_, err := service.ArchiveProjects(ctx)
		Expect(errors.Is(err, internal.ErrExportUnavailable)).To(BeTrue())
	})

	It("maps store failures to 500", func() {
		store.err = errors.New("access denied")
		_, err := service.ArchiveProjects(ctx)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(500))
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			handler := export.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, service)
			router = chi.NewRouter()
			router.Get("/projects/export", handler.Download)
			router.Post("/projects/export", handler.Archive)
		})

		It("downloads a csv attachment", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/export", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/csv"))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("attachment"))
			Expect(w.Body.String()).To(ContainSubstring(`"One, with comma"`))
		})

		It("archives on POST", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/projects/export", nil))
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Body.String()).To(ContainSubstring(`"key"`))
		})

		It("returns 500 when the snapshot fails", func() {
			source.err = errors.New("db down")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/export", nil))
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(strings.TrimSpace(w.Body.String())).To(ContainSubstring(`"error"`))
		})
	})
})
