package project_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/project-tracker/internal/core/events"
	"github.com/frahmantamala/project-tracker/internal/project"
)

var _ = Describe("Project Feed", func() {
	var (
		calls atomic.Int64
		feed  *project.Feed
		ctx   context.Context
	)

	loader := func(ctx context.Context) ([]*project.Project, error) {
		n := calls.Add(1)
		out := make([]*project.Project, n)
		for i := range out {
			out[i] = &project.Project{ID: int64(i + 1)}
		}
		return out, nil
	}

	BeforeEach(func() {
		calls.Store(0)
		ctx = context.Background()
		feed = project.NewFeed(loader, quietLogger())
	})

	It("delivers the current snapshot on subscribe", func() {
		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		ch, err := feed.Subscribe(subCtx)
		Expect(err).NotTo(HaveOccurred())

		var snap project.Snapshot
		Eventually(ch).Should(Receive(&snap))
		Expect(snap.Projects).To(HaveLen(1))
		Expect(snap.Version).To(Equal(uint64(1)))
	})

	It("keeps only the newest undelivered snapshot", func() {
		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		ch, err := feed.Subscribe(subCtx)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 4; i++ {
			_, err := feed.Refresh(ctx)
			Expect(err).NotTo(HaveOccurred())
		}

		var snap project.Snapshot
		Expect(ch).To(Receive(&snap))
		Expect(snap.Version).To(Equal(uint64(5)))
		Expect(snap.Projects).To(HaveLen(5))
		Consistently(ch, 50*time.Millisecond).ShouldNot(Receive())
	})

	It("refreshes on entity events", func() {
		Expect(feed.HandleEvent(ctx, events.NewEntityChangedEvent(events.EntityProject, events.ActionCreated, 1, "x", "uid"))).To(Succeed())
		snap, err := feed.Current(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(snap.Version).To(Equal(uint64(1)))
		Expect(calls.Load()).To(Equal(int64(1)))
	})

	It("serves the cached snapshot without reloading", func() {
		_, err := feed.Current(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = feed.Current(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls.Load()).To(Equal(int64(1)))
	})

	It("closes the channel when the subscriber goes away", func() {
		subCtx, cancel := context.WithCancel(ctx)
		ch, err := feed.Subscribe(subCtx)
		Expect(err).NotTo(HaveOccurred())
		Expect(feed.Subscribers()).To(Equal(1))

		cancel()
		Eventually(feed.Subscribers).Should(Equal(0))
		Eventually(ch).Should(BeClosed())

		_, err = feed.Refresh(ctx)
		Expect(err).NotTo(HaveOccurred())
	})

	It("fans out to every subscriber", func() {
		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		a, _ := feed.Subscribe(subCtx)
		b, _ := feed.Subscribe(subCtx)
		Eventually(a).Should(Receive())
		Eventually(b).Should(Receive())

		_, err := feed.Refresh(ctx)
		Expect(err).NotTo(HaveOccurred())

		var sa, sb project.Snapshot
		Eventually(a).Should(Receive(&sa))
		Eventually(b).Should(Receive(&sb))
		Expect(sa.Version).To(Equal(sb.Version))
	})

	It("reports load failures and keeps the last good snapshot", func() {
		_, err := feed.Current(ctx)
		Expect(err).NotTo(HaveOccurred())

		failing := project.NewFeed(func(context.Context) ([]*project.Project, error) {
			return nil, errors.New("db down")
		}, quietLogger())
		_, err = failing.Subscribe(ctx)
		Expect(err).To(HaveOccurred())
	})
})
