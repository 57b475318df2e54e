package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stemsplitter/tracker/internal/client"
	"github.com/stemsplitter/tracker/internal/config"
	"github.com/stemsplitter/tracker/internal/model"
	"github.com/stemsplitter/tracker/internal/view"
)

type recordingRegistrar struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingRegistrar) Register(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return true
}

func (r *recordingRegistrar) registered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

type toast struct {
	level   string
	message string
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []toast
}

func (n *recordingNotifier) Notify(level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast{level, message})
}

func (n *recordingNotifier) has(level, message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range n.toasts {
		if t.level == level && t.message == message {
			return true
		}
	}
	return false
}

// fakeBackend is a scripted separation backend
type fakeBackend struct {
	mu           sync.Mutex
	processCalls int
	batchURLs    []string
	batchModel   string
	processResp  string
	batchResp    string
	submitStatus int
	status       map[string]string
	history      string
}

func (b *fakeBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.URL.Path == "/api/process":
			b.processCalls++
			b.writeSubmit(w, b.processResp)
		case r.URL.Path == "/api/batch":
			var req struct {
				URLs  []string `json:"urls"`
				Model string   `json:"model"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad batch body: %v", err)
			}
			b.batchURLs = req.URLs
			b.batchModel = req.Model
			b.writeSubmit(w, b.batchResp)
		case r.URL.Path == "/api/history":
			if b.history == "" {
				w.Write([]byte(`[]`))
				return
			}
			w.Write([]byte(b.history))
		case r.URL.Path == "/api/models":
			w.Write([]byte(`["htdemucs","htdemucs_ft"]`))
		case strings.HasPrefix(r.URL.Path, "/api/status/"):
			id := strings.TrimPrefix(r.URL.Path, "/api/status/")
			body, ok := b.status[id]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}
}

func (b *fakeBackend) writeSubmit(w http.ResponseWriter, body string) {
	if b.submitStatus != 0 {
		w.WriteHeader(b.submitStatus)
	}
	w.Write([]byte(body))
}

func (b *fakeBackend) sentBatch() ([]string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.batchURLs, b.batchModel
}

func (b *fakeBackend) processCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.processCalls
}

func startBackend(t *testing.T, b *fakeBackend) *client.BackendClient {
	t.Helper()
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)
	return client.NewBackendClient(&config.BackendConfig{BaseURL: srv.URL, Timeout: 5})
}

func TestSubmitBatch_SkipsInvalidAndRegistersAll(t *testing.T) {
	b := &fakeBackend{batchResp: `{"success":true,"job_ids":["id-b","id-a"]}`}
	reg := &recordingRegistrar{}
	notifier := &recordingNotifier{}
	jobs := view.NewModel(nil)
	svc := NewSubmissionService(startBackend(t, b), jobs, reg, notifier, "htdemucs", nil)

	sub, err := svc.SubmitBatch(context.Background(), []string{
		"https://youtu.be/a",
		"not-a-url",
		"https://soundcloud.com/b",
	}, "")
	if err != nil {
		t.Fatalf("SubmitBatch failed: %v", err)
	}

	sent, sentModel := b.sentBatch()
	if len(sent) != 2 || sent[0] != "https://youtu.be/a" || sent[1] != "https://soundcloud.com/b" {
		t.Errorf("expected 2 valid urls sent, got %v", sent)
	}
	if sentModel != "htdemucs" {
		t.Errorf("expected default model, got %q", sentModel)
	}
	if len(sub.Rejected) != 1 || sub.Rejected[0] != "not-a-url" {
		t.Errorf("expected one rejection, got %v", sub.Rejected)
	}
	if !notifier.has(model.LevelWarning, "1 invalid URLs skipped") {
		t.Errorf("expected skip warning, got %+v", notifier.toasts)
	}

	ids := reg.registered()
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "id-a" || ids[1] != "id-b" {
		t.Errorf("expected both ids registered, got %v", ids)
	}
	if len(jobs.Cards()) != 2 {
		t.Errorf("expected 2 pending cards, got %d", len(jobs.Cards()))
	}
	if !sub.ClearInput {
		t.Error("expected input to be cleared on success")
	}
}

func TestSubmitBatch_NoValidURLs(t *testing.T) {
	b := &fakeBackend{}
	notifier := &recordingNotifier{}
	svc := NewSubmissionService(startBackend(t, b), view.NewModel(nil), &recordingRegistrar{}, notifier, "", nil)

	_, err := svc.SubmitBatch(context.Background(), []string{"nope", "  "}, "htdemucs")

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if sent, _ := b.sentBatch(); sent != nil {
		t.Error("no request expected when nothing is valid")
	}
	if !notifier.has(model.LevelError, "No valid URLs found") {
		t.Errorf("expected error toast, got %+v", notifier.toasts)
	}
}

func TestSubmitBatch_FailureIsAllOrNothing(t *testing.T) {
	b := &fakeBackend{batchResp: `{"success":false,"job_ids":["x","y"]}`}
	reg := &recordingRegistrar{}
	svc := NewSubmissionService(startBackend(t, b), view.NewModel(nil), reg, &recordingNotifier{}, "", nil)

	_, err := svc.SubmitBatch(context.Background(), []string{"https://youtu.be/a"}, "")

	var serr *model.SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if len(reg.registered()) != 0 {
		t.Errorf("expected nothing registered, got %v", reg.registered())
	}
}

func TestSubmitSingle_InvalidURLMakesNoRequest(t *testing.T) {
	b := &fakeBackend{processResp: `{"success":true,"job_id":"j1"}`}
	svc := NewSubmissionService(startBackend(t, b), view.NewModel(nil), &recordingRegistrar{}, &recordingNotifier{}, "", nil)

	sub, err := svc.SubmitSingle(context.Background(), "ftp://example.com/x", "")

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if sub != nil {
		t.Error("expected no submission")
	}
	if n := b.processCount(); n != 0 {
		t.Errorf("expected no backend call, got %d", n)
	}
}

func TestSubmitSingle_Success(t *testing.T) {
	b := &fakeBackend{processResp: `{"success":true,"job_id":"j1"}`}
	reg := &recordingRegistrar{}
	notifier := &recordingNotifier{}
	jobs := view.NewModel(nil)
	svc := NewSubmissionService(startBackend(t, b), jobs, reg, notifier, "", nil)

	sub, err := svc.SubmitSingle(context.Background(), "  https://www.youtube.com/watch?v=abc ", "mdx_extra")
	if err != nil {
		t.Fatalf("SubmitSingle failed: %v", err)
	}
	if len(sub.JobIDs) != 1 || sub.JobIDs[0] != "j1" || !sub.ClearInput {
		t.Errorf("unexpected submission %+v", sub)
	}
	if ids := reg.registered(); len(ids) != 1 || ids[0] != "j1" {
		t.Errorf("expected j1 registered, got %v", ids)
	}
	card, ok := jobs.Card("j1")
	if !ok || card.Status != view.StatusPending || card.URL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("unexpected pending card %+v", card)
	}
	if !notifier.has(model.LevelSuccess, "Processing started!") {
		t.Errorf("expected success toast, got %+v", notifier.toasts)
	}
}

func TestSubmitSingle_BackendRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"success false", `{"success":false,"error":"quota exceeded"}`},
		{"missing job id", `{"success":true}`},
		{"malformed", `{"success":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{processResp: tt.body}
			reg := &recordingRegistrar{}
			svc := NewSubmissionService(startBackend(t, b), view.NewModel(nil), reg, &recordingNotifier{}, "", nil)

			sub, err := svc.SubmitSingle(context.Background(), "https://youtu.be/a", "")

			var serr *model.SubmissionError
			if !errors.As(err, &serr) {
				t.Fatalf("expected SubmissionError, got %v", err)
			}
			if sub != nil || len(reg.registered()) != 0 {
				t.Error("expected nothing registered on failure")
			}
		})
	}
}

func TestSubmit_HTTPRejectionKeepsBackendReason(t *testing.T) {
	b := &fakeBackend{
		submitStatus: http.StatusBadRequest,
		processResp:  `{"success":false,"error":"URL required"}`,
		batchResp:    `{"success":false,"error":"URLs required"}`,
	}
	reg := &recordingRegistrar{}
	notifier := &recordingNotifier{}
	svc := NewSubmissionService(startBackend(t, b), view.NewModel(nil), reg, notifier, "", nil)

	_, err := svc.SubmitSingle(context.Background(), "https://youtu.be/a", "")
	var serr *model.SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if serr.Reason != "URL required" || serr.Err != nil {
		t.Errorf("expected backend reason, got %+v", serr)
	}

	_, err = svc.SubmitBatch(context.Background(), []string{"https://youtu.be/a"}, "")
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if serr.Reason != "URLs required" {
		t.Errorf("expected backend reason, got %+v", serr)
	}

	if !notifier.has(model.LevelError, "Failed to start processing") {
		t.Errorf("expected rejection toast, got %+v", notifier.toasts)
	}
	if notifier.has(model.LevelError, "Network error") {
		t.Errorf("a rejection must not be reported as a network error, got %+v", notifier.toasts)
	}
	if len(reg.registered()) != 0 {
		t.Errorf("expected nothing registered, got %v", reg.registered())
	}
}

func TestSubmitSingle_ServerErrorIsNetworkError(t *testing.T) {
	b := &fakeBackend{submitStatus: http.StatusInternalServerError, processResp: "Internal Server Error"}
	notifier := &recordingNotifier{}
	svc := NewSubmissionService(startBackend(t, b), view.NewModel(nil), &recordingRegistrar{}, notifier, "", nil)

	_, err := svc.SubmitSingle(context.Background(), "https://youtu.be/a", "")
	var serr *model.SubmissionError
	if !errors.As(err, &serr) || serr.Err == nil {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if !notifier.has(model.LevelError, "Network error") {
		t.Errorf("expected network error toast, got %+v", notifier.toasts)
	}
}

func TestModels_FallsBackToDefault(t *testing.T) {
	backend := client.NewBackendClient(&config.BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: 1})
	notifier := &recordingNotifier{}
	svc := NewSubmissionService(backend, view.NewModel(nil), &recordingRegistrar{}, notifier, "htdemucs_ft", nil)

	models := svc.Models(context.Background())
	if len(models) != 1 || models[0] != "htdemucs_ft" {
		t.Errorf("expected fallback to default model, got %v", models)
	}
	if !notifier.has(model.LevelError, "Failed to load models") {
		t.Error("expected an error toast")
	}
}

func TestSession_SubmitPollAndRefreshHistory(t *testing.T) {
	b := &fakeBackend{
		processResp: `{"success":true,"job_id":"j1"}`,
		status: map[string]string{
			"j1": `{"id":"j1","url":"https://youtu.be/a","title":"Song","status":"complete","progress":100,"message":"Done","stems":{"vocals":"/v","drums":"/d"}}`,
		},
	}
	backend := startBackend(t, b)

	historyUpdates := make(chan int, 8)
	session := NewSession(backend, SessionConfig{
		PollInterval:    10 * time.Millisecond,
		HistoryInterval: time.Hour,
	}, nil, &recordingNotifier{}, func(jobs []model.Job) { historyUpdates <- len(jobs) }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session.Start(ctx)
	defer session.Stop()

	if n := <-historyUpdates; n != 0 {
		t.Fatalf("expected empty initial history, got %d", n)
	}

	b.mu.Lock()
	b.history = `[{"id":"j1","title":"Song","status":"complete","stems":{"vocals":"/v"},"timestamp":"2024-01-01T00:00:00"}]`
	b.mu.Unlock()

	if _, err := session.Submissions.SubmitSingle(ctx, "https://youtu.be/a", ""); err != nil {
		t.Fatalf("SubmitSingle failed: %v", err)
	}
	session.Scheduler.Wait()

	card, ok := session.Jobs.Card("j1")
	if !ok || card.Status != model.JobStatusComplete || len(card.Stems) != 2 || card.Title != "Song" {
		t.Errorf("unexpected card %+v", card)
	}
	if session.Scheduler.IsActive("j1") {
		t.Error("expected j1 to leave the active set")
	}

	select {
	case n := <-historyUpdates:
		if n != 1 {
			t.Errorf("expected history with 1 job, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a history refresh after completion")
	}
}
