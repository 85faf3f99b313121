// Package scheduler drives the periodic fetch-match-notify cycle.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"skin_tracker/internal/fetcher"
	"skin_tracker/internal/matcher"
	"skin_tracker/internal/model"
	"skin_tracker/internal/storage"
)

// Notifier receives match events for delivery to users.
type Notifier interface {
	Notify(event model.MatchEvent)
}

// Scheduler runs the scan loop: one cycle per tick, strictly sequential,
// never terminating on error. Only ctx cancellation stops it.
type Scheduler struct {
	store    storage.Storage
	fetcher  *fetcher.Fetcher
	engine   *matcher.Engine
	notifier Notifier
	log      *slog.Logger
	tick     time.Duration
}

// New creates a Scheduler.
func New(store storage.Storage, f *fetcher.Fetcher, notifier Notifier, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		fetcher:  f,
		engine:   matcher.New(store, log),
		notifier: notifier,
		log:      log,
		tick:     5 * time.Minute,
	}
}

// SetTickInterval overrides the default 5-minute scan interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// Run starts the scan loop, blocking until ctx is cancelled. A cycle that
// overruns the interval delays the next one; cycles never overlap.
func (s *Scheduler) Run(ctx context.Context) {
	s.scan(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan performs one fetch-match-notify cycle. Anything that goes wrong,
// including a panic, is logged and turns the cycle into a no-op; the loop
// always survives to the next tick.
func (s *Scheduler) scan(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scan cycle panicked", "panic", r)
		}
	}()

	s.log.Debug("scan cycle started")

	listings := s.fetcher.FetchAll(ctx)
	if len(listings) == 0 {
		s.log.Info("no listings fetched, skipping cycle")
		return
	}

	subs, err := s.store.ListAllSubscriptions(ctx)
	if err != nil {
		s.log.Error("list subscriptions", "error", err)
		return
	}
	if len(subs) == 0 {
		s.log.Info("no active subscriptions, skipping cycle")
		return
	}

	events := s.engine.Evaluate(ctx, listings, subs)
	for _, ev := range events {
		if ctx.Err() != nil {
			return
		}
		s.notifier.Notify(ev)

		// Rate limit: ~20 messages/sec max for Telegram
		time.Sleep(50 * time.Millisecond)
	}

	if len(events) > 0 {
		s.log.Info("notifications dispatched", "count", len(events))
	}
}
