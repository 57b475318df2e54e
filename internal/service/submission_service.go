package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/stemsplitter/tracker/internal/client"
	"github.com/stemsplitter/tracker/internal/metrics"
	"github.com/stemsplitter/tracker/internal/model"
	"github.com/stemsplitter/tracker/internal/sources"
	"github.com/stemsplitter/tracker/internal/view"
)

// JobView receives a pending card for every accepted job
type JobView interface {
	Track(id, url string) view.Delta
}

// Registrar starts polling a job
type Registrar interface {
	Register(id string) bool
}

// Submission is the outcome of a successful submission
type Submission struct {
	JobIDs     []string `json:"jobIds"`
	Rejected   []string `json:"rejected,omitempty"`
	ClearInput bool     `json:"clearInput"`
}

// SubmissionService sends jobs to the backend and hands the returned ids
// to the poll scheduler.
type SubmissionService struct {
	backend      client.Backend
	jobs         JobView
	scheduler    Registrar
	notifier     Notifier
	defaultModel string
	metrics      *metrics.Metrics
}

func NewSubmissionService(backend client.Backend, jobs JobView, scheduler Registrar, notifier Notifier, defaultModel string, m *metrics.Metrics) *SubmissionService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if defaultModel == "" {
		defaultModel = model.DefaultModel
	}
	return &SubmissionService{
		backend:      backend,
		jobs:         jobs,
		scheduler:    scheduler,
		notifier:     notifier,
		defaultModel: defaultModel,
		metrics:      m,
	}
}

// SubmitSingle submits one URL. Invalid URLs fail with *model.ValidationError
// before any request is made; backend failures return *model.SubmissionError.
func (s *SubmissionService) SubmitSingle(ctx context.Context, url, modelName string) (*Submission, error) {
	url = strings.TrimSpace(url)
	if !sources.IsSupported(url) {
		s.metrics.Submission("single", "invalid")
		return nil, &model.ValidationError{URL: url, Reason: "Invalid YouTube or SoundCloud URL"}
	}

	resp, err := s.backend.Process(ctx, url, s.model(modelName))
	if err != nil {
		s.metrics.Submission("single", "error")
		s.notifier.Notify(model.LevelError, "Network error")
		return nil, &model.SubmissionError{Op: "process", Reason: "backend unreachable", Err: err}
	}
	if !resp.Success || resp.JobID == "" {
		s.metrics.Submission("single", "rejected")
		s.notifier.Notify(model.LevelError, "Failed to start processing")
		return nil, &model.SubmissionError{Op: "process", Reason: rejectionReason(resp.Error, resp.Success)}
	}

	s.start(resp.JobID, url)
	s.metrics.Submission("single", "ok")
	s.notifier.Notify(model.LevelSuccess, "Processing started!")

	return &Submission{JobIDs: []string{resp.JobID}, ClearInput: true}, nil
}

// SubmitBatch submits the supported subset of urls in one request. Rejected
// entries are reported, not fatal. A response with success false registers
// nothing, whatever ids it carries.
func (s *SubmissionService) SubmitBatch(ctx context.Context, urls []string, modelName string) (*Submission, error) {
	valid, rejected := sources.Filter(urls)
	s.metrics.URLsRejected(len(rejected))

	if len(valid) == 0 {
		s.metrics.Submission("batch", "invalid")
		s.notifier.Notify(model.LevelError, "No valid URLs found")
		return nil, &model.ValidationError{Reason: "No valid URLs found"}
	}
	if len(rejected) > 0 {
		s.notifier.Notify(model.LevelWarning, fmt.Sprintf("%d invalid URLs skipped", len(rejected)))
	}

	resp, err := s.backend.Batch(ctx, valid, s.model(modelName))
	if err != nil {
		s.metrics.Submission("batch", "error")
		s.notifier.Notify(model.LevelError, "Network error")
		return nil, &model.SubmissionError{Op: "batch", Reason: "backend unreachable", Err: err}
	}
	if !resp.Success {
		s.metrics.Submission("batch", "rejected")
		s.notifier.Notify(model.LevelError, "Failed to start processing")
		return nil, &model.SubmissionError{Op: "batch", Reason: rejectionReason(resp.Error, false)}
	}

	ids := make([]string, 0, len(resp.JobIDs))
	for _, id := range resp.JobIDs {
		if id == "" {
			continue
		}
		// ids are not guaranteed to follow input order, so no URL is attached
		s.start(id, "")
		ids = append(ids, id)
	}

	s.metrics.Submission("batch", "ok")
	s.notifier.Notify(model.LevelSuccess, fmt.Sprintf("%d jobs started!", len(ids)))

	return &Submission{JobIDs: ids, Rejected: rejected, ClearInput: true}, nil
}

// Models returns the selectable models, falling back to the default model
// when the backend cannot be asked.
func (s *SubmissionService) Models(ctx context.Context) []string {
	models, err := s.backend.ListModels(ctx)
	if err != nil {
		log.Printf("[Backend] failed to load models: %v", err)
		s.notifier.Notify(model.LevelError, "Failed to load models")
		return []string{s.defaultModel}
	}
	if len(models) == 0 {
		return []string{s.defaultModel}
	}
	return models
}

func (s *SubmissionService) DefaultModel() string {
	return s.defaultModel
}

// start registers id for polling first, then creates its pending card
func (s *SubmissionService) start(id, url string) {
	s.scheduler.Register(id)
	s.jobs.Track(id, url)
}

func (s *SubmissionService) model(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.defaultModel
	}
	return name
}

func rejectionReason(backendErr string, success bool) string {
	switch {
	case backendErr != "":
		return backendErr
	case success:
		return "no job id returned"
	default:
		return "backend reported failure"
	}
}
