package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/stemsplitter/tracker/internal/metrics"
	"github.com/stemsplitter/tracker/internal/model"
)

// DefaultInterval is the fixed delay between two fetches of one job
const DefaultInterval = 2 * time.Second

// StatusFetcher fetches the current state of one job
type StatusFetcher interface {
	Status(ctx context.Context, jobID string) (*model.Job, error)
}

// Sink receives every successful observation, in fetch order per job
type Sink interface {
	Observe(job model.Job)
}

// RefreshTrigger is signalled when a job reaches a terminal status
type RefreshTrigger interface {
	RequestRefresh()
}

// Options configures a Scheduler
type Options struct {
	Interval time.Duration
	Clock    Clock
	Trigger  RefreshTrigger
	Metrics  *metrics.Metrics
	Logger   *log.Logger
}

// Stats are cumulative scheduler counters
type Stats struct {
	Registered  int64 `json:"registered"`
	Duplicates  int64 `json:"duplicates"`
	Fetches     int64 `json:"fetches"`
	FetchErrors int64 `json:"fetchErrors"`
	Terminal    int64 `json:"terminal"`
	Active      int   `json:"active"`
}

// Scheduler runs one poll loop per registered job until the job reaches a
// terminal status or a fetch fails.
type Scheduler struct {
	fetcher  StatusFetcher
	sink     Sink
	trigger  RefreshTrigger
	clock    Clock
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *log.Logger

	active *ActivePollSet

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
	stats   Stats
}

// NewScheduler creates a scheduler for one tracking session
func NewScheduler(fetcher StatusFetcher, sink Sink, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[poll] ", log.LstdFlags)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		fetcher:  fetcher,
		sink:     sink,
		trigger:  opts.Trigger,
		clock:    opts.Clock,
		interval: opts.Interval,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		active:   NewActivePollSet(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register starts polling id. It is a no-op returning false if id is
// already being polled or the scheduler is stopped. The first fetch is
// issued immediately.
func (s *Scheduler) Register(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if !s.active.Register(id) {
		s.stats.Duplicates++
		s.metrics.PollDuplicate()
		return false
	}

	s.stats.Registered++
	s.metrics.PollRegistered()
	s.metrics.SetPollActive(s.active.Len())

	s.wg.Add(1)
	go s.poll(id)
	return true
}

// IsActive reports whether id currently has a poll loop
func (s *Scheduler) IsActive(id string) bool {
	return s.active.IsActive(id)
}

// Active returns the ids currently being polled
func (s *Scheduler) Active() []string {
	return s.active.IDs()
}

// Stop cancels every poll loop and waits for them to exit
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.wg.Wait()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// Wait blocks until no poll loop is running
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Active = s.active.Len()
	return st
}

// poll deregisters id exactly once, after the loop ends and before any
// refresh request.
func (s *Scheduler) poll(id string) {
	defer s.wg.Done()

	terminal := s.run(id)
	s.deregister(id)
	if terminal && s.trigger != nil {
		s.trigger.RequestRefresh()
	}
}

// run fetches id until it reaches a terminal status, a fetch fails or the
// session stops. It reports whether a terminal status was observed.
func (s *Scheduler) run(id string) bool {
	for {
		s.count(func(st *Stats) { st.Fetches++ })
		s.metrics.PollFetch()

		job, err := s.fetcher.Status(s.ctx, id)
		if err != nil {
			if s.ctx.Err() != nil {
				return false
			}
			s.count(func(st *Stats) { st.FetchErrors++ })
			s.metrics.PollFetchError()
			s.logger.Printf("✗ %v", &model.PollFetchError{JobID: id, Err: err})
			return false
		}

		observed := *job
		observed.ID = id
		s.sink.Observe(observed)

		if observed.Status.IsTerminal() {
			s.count(func(st *Stats) { st.Terminal++ })
			s.metrics.PollTerminal(string(observed.Status))
			s.logger.Printf("✓ job %s reached %s", id, observed.Status)
			return true
		}

		select {
		case <-s.ctx.Done():
			return false
		case <-s.clock.After(s.interval):
		}
	}
}

func (s *Scheduler) deregister(id string) {
	s.active.Deregister(id)
	s.metrics.SetPollActive(s.active.Len())
}

func (s *Scheduler) count(fn func(st *Stats)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
}
