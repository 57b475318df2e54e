package view

import (
	"testing"

	"github.com/stemsplitter/tracker/internal/model"
)

func completeJob() model.Job {
	return model.Job{
		ID:       "j1",
		URL:      "https://youtu.be/a",
		Title:    "Song",
		Status:   model.JobStatusComplete,
		Progress: 100,
		Message:  "Done",
		Stems:    map[string]string{"vocals": "/v", "drums": "/d", "bass": "/b"},
	}
}

func TestReconcile_CreateUsesURLFallback(t *testing.T) {
	card, delta := Reconcile(nil, model.Job{
		ID:       "j1",
		URL:      "https://youtu.be/a",
		Status:   model.JobStatusQueued,
		Progress: 0,
		Message:  "Queued",
	})

	if !delta.Created || delta.Card == nil {
		t.Fatalf("expected a create delta, got %+v", delta)
	}
	if card.Title != "https://youtu.be/a" || card.TitleKnown {
		t.Errorf("expected URL fallback title, got %q known=%v", card.Title, card.TitleKnown)
	}
	if card.Status != model.JobStatusQueued || card.Message != "Queued" {
		t.Errorf("unexpected card %+v", card)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	jobs := []model.Job{
		{ID: "j1", URL: "https://youtu.be/a", Status: model.JobStatusProcessing, Progress: 40, Message: "Separating"},
		{ID: "j1", Status: model.JobStatusQueued},
		completeJob(),
	}

	for _, job := range jobs {
		first, _ := Reconcile(nil, job)
		second, delta := Reconcile(&first, job)
		if !delta.Empty() {
			t.Errorf("expected empty delta on repeated %s observation, got %+v", job.Status, delta)
		}
		third, delta := Reconcile(&second, job)
		if !delta.Empty() {
			t.Errorf("expected empty delta on third %s observation, got %+v", job.Status, delta)
		}
		if len(third.Stems) != len(first.Stems) {
			t.Errorf("stems changed across repeated observations: %v vs %v", first.Stems, third.Stems)
		}
	}
}

func TestReconcile_OnlyChangedFields(t *testing.T) {
	prev, _ := Reconcile(nil, model.Job{ID: "j1", Status: model.JobStatusProcessing, Progress: 10, Message: "Separating"})

	_, delta := Reconcile(&prev, model.Job{ID: "j1", Status: model.JobStatusProcessing, Progress: 40, Message: "Separating"})

	if delta.Progress == nil || *delta.Progress != 40 {
		t.Errorf("expected progress delta 40, got %+v", delta.Progress)
	}
	if delta.Status != nil || delta.Message != nil || delta.Title != nil {
		t.Errorf("expected only progress to change, got %+v", delta)
	}
}

func TestReconcile_ProgressFollowsLatestValue(t *testing.T) {
	prev, _ := Reconcile(nil, model.Job{ID: "j1", Status: model.JobStatusProcessing, Progress: 60})
	card, delta := Reconcile(&prev, model.Job{ID: "j1", Status: model.JobStatusProcessing, Progress: 30})

	if card.Progress != 30 || delta.Progress == nil {
		t.Errorf("expected progress to drop to 30, got %v", card.Progress)
	}
}

func TestReconcile_StemsAttachedOnce(t *testing.T) {
	card, delta := Reconcile(nil, model.Job{ID: "j1", Status: model.JobStatusProcessing, Progress: 90})
	if len(delta.Stems) != 0 {
		t.Fatal("no stems expected before completion")
	}

	attachments := 0
	for i := 0; i < 3; i++ {
		card, delta = Reconcile(&card, completeJob())
		if len(delta.Stems) > 0 {
			attachments++
		}
	}

	if attachments != 1 {
		t.Errorf("expected stems attached exactly once, got %d", attachments)
	}
	if len(card.Stems) != 3 {
		t.Fatalf("expected 3 stem controls, got %d", len(card.Stems))
	}
	if card.Stems[0].Name != "bass" || card.Stems[1].Name != "drums" || card.Stems[2].Name != "vocals" {
		t.Errorf("expected stems sorted by name, got %v", card.Stems)
	}
}

func TestReconcile_LateStemsStillAttach(t *testing.T) {
	job := completeJob()
	job.Stems = nil
	card, _ := Reconcile(nil, job)

	_, delta := Reconcile(&card, completeJob())
	if len(delta.Stems) != 3 {
		t.Errorf("expected stems from the later complete observation, got %v", delta.Stems)
	}
}

func TestReconcile_TerminalCardIsFrozen(t *testing.T) {
	card, _ := Reconcile(nil, completeJob())

	next, delta := Reconcile(&card, model.Job{ID: "j1", Status: model.JobStatusProcessing, Progress: 10, Message: "Restarted"})
	if delta.Status != nil || delta.Progress != nil || delta.Message != nil {
		t.Errorf("expected terminal card to ignore the downgrade, got %+v", delta)
	}
	if next.Status != model.JobStatusComplete || next.Progress != 100 {
		t.Errorf("unexpected card after downgrade attempt %+v", next)
	}

	failed, _ := Reconcile(nil, model.Job{ID: "j2", Status: model.JobStatusError, Message: "boom"})
	after, delta := Reconcile(&failed, model.Job{ID: "j2", Status: model.JobStatusComplete, Stems: map[string]string{"vocals": "/v"}})
	if !delta.Empty() || after.Status != model.JobStatusError || len(after.Stems) != 0 {
		t.Errorf("expected error card to stay failed without stems, got %+v", after)
	}
}

func TestReconcile_TitleRules(t *testing.T) {
	card, _ := Reconcile(nil, model.Job{ID: "j1", URL: "https://youtu.be/a", Status: model.JobStatusQueued})

	card, delta := Reconcile(&card, model.Job{ID: "j1", Title: "Real Title", Status: model.JobStatusQueued})
	if delta.Title == nil || *delta.Title != "Real Title" {
		t.Fatalf("expected fallback title to be upgraded, got %+v", delta.Title)
	}

	card, delta = Reconcile(&card, model.Job{ID: "j1", Status: model.JobStatusProcessing})
	if delta.Title != nil || card.Title != "Real Title" {
		t.Errorf("expected known title to survive a blank observation, got %q", card.Title)
	}

	pending, _ := Reconcile(nil, model.Job{ID: "j3", Status: StatusPending})
	if pending.Title != "j3" {
		t.Errorf("expected id fallback title, got %q", pending.Title)
	}
	upgraded, delta := Reconcile(&pending, model.Job{ID: "j3", URL: "https://soundcloud.com/b", Status: model.JobStatusQueued})
	if upgraded.Title != "https://soundcloud.com/b" || delta.Title == nil {
		t.Errorf("expected id fallback to upgrade to the url, got %q", upgraded.Title)
	}
}

func TestReconcile_DoesNotMutatePrev(t *testing.T) {
	prev, _ := Reconcile(nil, model.Job{ID: "j1", Status: model.JobStatusProcessing})
	_, _ = Reconcile(&prev, completeJob())

	if prev.Status != model.JobStatusProcessing || len(prev.Stems) != 0 {
		t.Errorf("prev was modified: %+v", prev)
	}
}
