package service

import (
	"context"
	"sync"
	"time"

	"github.com/stemsplitter/tracker/internal/client"
	"github.com/stemsplitter/tracker/internal/history"
	"github.com/stemsplitter/tracker/internal/metrics"
	"github.com/stemsplitter/tracker/internal/tracker"
	"github.com/stemsplitter/tracker/internal/view"
)

// SessionConfig configures one tracking session
type SessionConfig struct {
	PollInterval    time.Duration
	HistoryInterval time.Duration
	DefaultModel    string
	Clock           tracker.Clock
}

// Session owns the tracking state of one user: the view model, the poll
// scheduler, the history and the submission entry points.
type Session struct {
	Backend     client.Backend
	Jobs        *view.Model
	Scheduler   *tracker.Scheduler
	History     *history.Synchronizer
	Submissions *SubmissionService

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession wires the tracking components together. renderer receives job
// deltas and onHistory the visible history list after every change; both
// may be nil.
func NewSession(backend client.Backend, cfg SessionConfig, renderer view.Renderer, notifier Notifier, onHistory history.Listener, m *metrics.Metrics) *Session {
	jobs := view.NewModel(renderer)
	hist := history.NewSynchronizer(backend, history.Options{
		Interval: cfg.HistoryInterval,
		Metrics:  m,
		OnChange: onHistory,
	})
	scheduler := tracker.NewScheduler(backend, jobs, tracker.Options{
		Interval: cfg.PollInterval,
		Clock:    cfg.Clock,
		Trigger:  hist,
		Metrics:  m,
	})

	return &Session{
		Backend:     backend,
		Jobs:        jobs,
		Scheduler:   scheduler,
		History:     hist,
		Submissions: NewSubmissionService(backend, jobs, scheduler, notifier, cfg.DefaultModel, m),
	}
}

// Start runs the history synchronizer in the background
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.History.Run(ctx)
	}()
}

// Stop cancels every poll loop and the history synchronizer
func (s *Session) Stop() {
	s.Scheduler.Stop()
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
