package history

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/stemsplitter/tracker/internal/metrics"
	"github.com/stemsplitter/tracker/internal/model"
)

// DefaultInterval is the period of the background refresh
const DefaultInterval = 30 * time.Second

// ErrClearNotConfirmed is returned by Clear without confirmation
var ErrClearNotConfirmed = errors.New("history clear requires confirmation")

// Fetcher returns the complete list of finished jobs
type Fetcher interface {
	History(ctx context.Context) ([]model.Job, error)
}

// Listener is called with the visible list after every change
type Listener func(jobs []model.Job)

type Options struct {
	Interval time.Duration
	Metrics  *metrics.Metrics
	Logger   *log.Logger
	OnChange Listener
}

type Stats struct {
	Refreshes   int64     `json:"refreshes"`
	Failures    int64     `json:"failures"`
	Size        int       `json:"size"`
	Hidden      int       `json:"hidden"`
	LastRefresh time.Time `json:"lastRefresh"`
	LastError   string    `json:"lastError,omitempty"`
}

// Synchronizer keeps the history list in step with the backend. Every
// successful refresh replaces the list wholesale.
type Synchronizer struct {
	fetcher  Fetcher
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *log.Logger
	listener Listener

	trigger chan struct{}

	mu     sync.RWMutex
	jobs   []model.Job
	hidden map[string]struct{}
	stats  Stats
}

func NewSynchronizer(fetcher Fetcher, opts Options) *Synchronizer {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[history] ", log.LstdFlags)
	}
	return &Synchronizer{
		fetcher:  fetcher,
		interval: opts.Interval,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		listener: opts.OnChange,
		trigger:  make(chan struct{}, 1),
		hidden:   make(map[string]struct{}),
	}
}

// Refresh fetches the list once. On failure the previous list is kept and
// a *model.HistoryFetchError is returned.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	jobs, err := s.fetcher.History(ctx)
	if err != nil {
		herr := &model.HistoryFetchError{Err: err}
		s.mu.Lock()
		s.stats.Failures++
		s.stats.LastError = herr.Error()
		s.mu.Unlock()
		s.metrics.HistoryRefresh(false)
		s.logger.Printf("✗ %v", herr)
		return herr
	}

	s.mu.Lock()
	visible := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if _, ok := s.hidden[job.ID]; ok {
			continue
		}
		visible = append(visible, job)
	}
	s.jobs = visible
	s.stats.Refreshes++
	s.stats.Size = len(visible)
	s.stats.LastRefresh = time.Now()
	s.stats.LastError = ""
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.HistoryRefresh(true)
	s.metrics.SetHistorySize(len(snapshot))
	s.notify(snapshot)
	return nil
}

// Run refreshes at start, on every interval tick and whenever a refresh is
// requested, until ctx is done. Failed refreshes do not stop the loop.
func (s *Synchronizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	_ = s.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		case <-s.trigger:
			_ = s.Refresh(ctx)
		}
	}
}

// RequestRefresh asks Run for a refresh without blocking. Requests made
// while one is already pending are coalesced.
func (s *Synchronizer) RequestRefresh() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Clear empties the visible list. Cleared jobs stay hidden from later
// refreshes for the lifetime of the Synchronizer; the backend keeps them.
func (s *Synchronizer) Clear(confirmed bool) error {
	if !confirmed {
		return ErrClearNotConfirmed
	}

	s.mu.Lock()
	for _, job := range s.jobs {
		s.hidden[job.ID] = struct{}{}
	}
	s.jobs = nil
	s.stats.Size = 0
	s.stats.Hidden = len(s.hidden)
	s.mu.Unlock()

	s.logger.Printf("history cleared (%d hidden)", s.Stats().Hidden)
	s.metrics.SetHistorySize(0)
	s.notify([]model.Job{})
	return nil
}

// Snapshot returns a copy of the visible list
func (s *Synchronizer) Snapshot() []model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Synchronizer) snapshotLocked() []model.Job {
	out := make([]model.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

func (s *Synchronizer) notify(jobs []model.Job) {
	if s.listener != nil {
		s.listener(jobs)
	}
}
