package project

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/project-tracker/internal/core/events"
)

// Snapshot is an immutable view of every project at one point in time.
// Receivers must treat Projects as read-only.
type Snapshot struct {
	Projects []*Project
	Version  uint64
	TakenAt  time.Time
}

// Loader produces the full, resolved project list.
type Loader func(ctx context.Context) ([]*Project, error)

type subscriber struct {
	ch chan Snapshot
}

// offer delivers snap, replacing an older snapshot the receiver has not
// taken yet. Callers hold Feed.mu.
func (s *subscriber) offer(snap Snapshot) {
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Feed pushes project snapshots to subscribers. Each subscriber sees the
// latest snapshot; intermediate ones may be skipped.
type Feed struct {
	load   Loader
	logger *slog.Logger

	requested atomic.Uint64

	mu        sync.Mutex
	subs      map[*subscriber]struct{}
	current   *Snapshot
	published uint64
}

func NewFeed(load Loader, logger *slog.Logger) *Feed {
	return &Feed{
		load:   load,
		logger: logger,
		subs:   make(map[*subscriber]struct{}),
	}
}

// Subscribe returns a channel carrying the current snapshot followed by every
// newer one. The channel is closed once ctx is done.
func (f *Feed) Subscribe(ctx context.Context) (<-chan Snapshot, error) {
	snap, err := f.Current(ctx)
	if err != nil {
		return nil, err
	}

	sub := &subscriber{ch: make(chan Snapshot, 1)}

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	if f.current != nil && f.current.Version > snap.Version {
		snap = *f.current
	}
	sub.offer(snap)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, sub)
		close(sub.ch)
		f.mu.Unlock()
	}()

	return sub.ch, nil
}

// Current returns the latest snapshot, loading one if none exists yet.
func (f *Feed) Current(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	if f.current != nil {
		snap := *f.current
		f.mu.Unlock()
		return snap, nil
	}
	f.mu.Unlock()

	return f.Refresh(ctx)
}

// Refresh loads a new snapshot and broadcasts it. A refresh that finishes
// after a later-started one is dropped so subscribers never go backwards.
func (f *Feed) Refresh(ctx context.Context) (Snapshot, error) {
	seq := f.requested.Add(1)
	projects, err := f.load(ctx)
	if err != nil {
		f.logger.ErrorContext(ctx, "project snapshot load failed", "error", err)
		return Snapshot{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq <= f.published && f.current != nil {
		return *f.current, nil
	}
	f.published = seq

	snap := Snapshot{Projects: projects, Version: seq, TakenAt: time.Now()}
	f.current = &snap
	for sub := range f.subs {
		sub.offer(snap)
	}

	f.logger.DebugContext(ctx, "project snapshot published",
		"version", seq,
		"projects", len(projects),
		"subscribers", len(f.subs))
	return snap, nil
}

// HandleEvent refreshes the feed; subscribe it to project and category events.
func (f *Feed) HandleEvent(ctx context.Context, _ events.Event) error {
	_, err := f.Refresh(ctx)
	return err
}

func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
