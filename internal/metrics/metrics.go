package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes tracker counters to Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	pollRegistered  prometheus.Counter
	pollDuplicates  prometheus.Counter
	pollFetches     prometheus.Counter
	pollFetchErrors prometheus.Counter
	pollTerminal    *prometheus.CounterVec
	pollActive      prometheus.Gauge

	historyRefreshes *prometheus.CounterVec
	historySize      prometheus.Gauge

	submissions  *prometheus.CounterVec
	urlsRejected prometheus.Counter
}

// New creates the tracker metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pollRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stemtracker_poll_registered_total",
			Help: "Jobs that started a poll loop",
		}),
		pollDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stemtracker_poll_duplicate_registrations_total",
			Help: "Registrations ignored because the job was already being polled",
		}),
		pollFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stemtracker_poll_fetches_total",
			Help: "Status fetches issued to the backend",
		}),
		pollFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stemtracker_poll_fetch_errors_total",
			Help: "Status fetches that failed and stopped a poll loop",
		}),
		pollTerminal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stemtracker_poll_terminal_total",
				Help: "Jobs observed reaching a terminal status",
			},
			[]string{"status"},
		),
		pollActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stemtracker_poll_active",
			Help: "Jobs currently in the active poll set",
		}),
		historyRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stemtracker_history_refreshes_total",
				Help: "History refresh attempts by result",
			},
			[]string{"result"},
		),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stemtracker_history_jobs",
			Help: "Jobs in the last fetched history list",
		}),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stemtracker_submissions_total",
				Help: "Submissions by kind and result",
			},
			[]string{"kind", "result"},
		),
		urlsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stemtracker_urls_rejected_total",
			Help: "URLs rejected by the source validator",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.pollRegistered,
			m.pollDuplicates,
			m.pollFetches,
			m.pollFetchErrors,
			m.pollTerminal,
			m.pollActive,
			m.historyRefreshes,
			m.historySize,
			m.submissions,
			m.urlsRejected,
		)
	}

	return m
}

func (m *Metrics) PollRegistered() {
	if m == nil {
		return
	}
	m.pollRegistered.Inc()
}

func (m *Metrics) PollDuplicate() {
	if m == nil {
		return
	}
	m.pollDuplicates.Inc()
}

func (m *Metrics) PollFetch() {
	if m == nil {
		return
	}
	m.pollFetches.Inc()
}

func (m *Metrics) PollFetchError() {
	if m == nil {
		return
	}
	m.pollFetchErrors.Inc()
}

func (m *Metrics) PollTerminal(status string) {
	if m == nil {
		return
	}
	m.pollTerminal.WithLabelValues(status).Inc()
}

func (m *Metrics) SetPollActive(n int) {
	if m == nil {
		return
	}
	m.pollActive.Set(float64(n))
}

// HistoryRefresh records one refresh attempt
func (m *Metrics) HistoryRefresh(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.historyRefreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) SetHistorySize(n int) {
	if m == nil {
		return
	}
	m.historySize.Set(float64(n))
}

// Submission records a submission of kind "single" or "batch"
func (m *Metrics) Submission(kind, result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) URLsRejected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.urlsRejected.Add(float64(n))
}
