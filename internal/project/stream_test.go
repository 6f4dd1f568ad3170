package project_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracker/internal/project"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

var _ = Describe("Project Stream", func() {
	var (
		mu      sync.Mutex
		names   []string
		loadErr error
		feed    *project.Feed
		server  *httptest.Server
	)

	setNames := func(n ...string) {
		mu.Lock()
		defer mu.Unlock()
		names = n
	}

	BeforeEach(func() {
		setNames("Launch")
		loadErr = nil
		feed = project.NewFeed(func(ctx context.Context) ([]*project.Project, error) {
			mu.Lock()
			defer mu.Unlock()
			if loadErr != nil {
				return nil, loadErr
			}
			out := make([]*project.Project, 0, len(names))
			for i, n := range names {
				out = append(out, &project.Project{ID: int64(i + 1), Name: n})
			}
			return out, nil
		}, quietLogger())

		handler := project.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, nil).WithFeed(feed)
		server = httptest.NewServer(http.HandlerFunc(handler.Stream))
	})

	AfterEach(func() {
		server.Close()
	})

	// nextEvent reads one event and returns its id and decoded project names.
	nextEvent := func(r *bufio.Reader) (string, []string) {
		var id, data string
		for {
			line, err := r.ReadString('\n')
			Expect(err).NotTo(HaveOccurred())
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "" && data != "":
				var body struct {
					Projects []struct {
						Name string `json:"projectName"`
					} `json:"projects"`
				}
				Expect(json.Unmarshal([]byte(data), &body)).To(Succeed())
				out := make([]string, 0, len(body.Projects))
				for _, p := range body.Projects {
					out = append(out, p.Name)
				}
				return id, out
			case strings.HasPrefix(line, "id: "):
				id = strings.TrimPrefix(line, "id: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
	}

	It("sends the current list and then every refresh", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(Equal("text/event-stream"))

		reader := bufio.NewReader(resp.Body)
		id, got := nextEvent(reader)
		Expect(id).To(Equal("1"))
		Expect(got).To(Equal([]string{"Launch"}))

		setNames("Launch", "Relaunch")
		_, err = feed.Refresh(ctx)
		Expect(err).NotTo(HaveOccurred())

		id, got = nextEvent(reader)
		Expect(id).To(Equal("2"))
		Expect(got).To(Equal([]string{"Launch", "Relaunch"}))
	})

	It("drops the subscription when the client goes away", func() {
		ctx, cancel := context.WithCancel(context.Background())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())

		_, _ = nextEvent(bufio.NewReader(resp.Body))
		Expect(feed.Subscribers()).To(Equal(1))

		cancel()
		resp.Body.Close()
		Eventually(feed.Subscribers).Should(BeZero())
	})

	It("answers 500 when the first snapshot cannot be loaded", func() {
		mu.Lock()
		loadErr = errors.New("db down")
		mu.Unlock()
		resp, err := http.Get(server.URL)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
	})
})
