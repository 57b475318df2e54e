package view

import (
	"sort"

	"github.com/stemsplitter/tracker/internal/model"
)

// StatusPending marks a card created from a submission before the first
// observation arrives.
const StatusPending model.JobStatus = "pending"

// StemControl is one download control on a completed card
type StemControl struct {
	Name     string `json:"name"`
	Resource string `json:"resource"`
}

// Card is the rendered state of one tracked job
type Card struct {
	JobID      string          `json:"jobId"`
	URL        string          `json:"url,omitempty"`
	Title      string          `json:"title"`
	TitleKnown bool            `json:"titleKnown"`
	Status     model.JobStatus `json:"status"`
	Progress   float64         `json:"progress"`
	Message    string          `json:"message"`
	Stems      []StemControl   `json:"stems,omitempty"`
}

// Terminal reports whether the card can no longer change status
func (c *Card) Terminal() bool {
	return c.Status.IsTerminal()
}

// Delta is the change one observation made to a card. Nil fields are unchanged.
type Delta struct {
	JobID    string           `json:"jobId"`
	Created  bool             `json:"created,omitempty"`
	Card     *Card            `json:"card,omitempty"`
	Title    *string          `json:"title,omitempty"`
	Status   *model.JobStatus `json:"status,omitempty"`
	Progress *float64         `json:"progress,omitempty"`
	Message  *string          `json:"message,omitempty"`
	Stems    []StemControl    `json:"stems,omitempty"`
}

// Empty reports whether the delta changes nothing
func (d Delta) Empty() bool {
	return !d.Created &&
		d.Title == nil &&
		d.Status == nil &&
		d.Progress == nil &&
		d.Message == nil &&
		len(d.Stems) == 0
}

// Reconcile folds one observation into the previous card, if any, and
// returns the new card together with the minimal delta. prev is not
// modified.
func Reconcile(prev *Card, job model.Job) (Card, Delta) {
	if prev == nil {
		card := Card{
			JobID:    job.ID,
			URL:      job.URL,
			Status:   job.Status,
			Progress: job.Progress,
			Message:  job.Message,
		}
		card.Title, card.TitleKnown = initialTitle(job.ID, job.URL, job.Title)
		if card.Status == model.JobStatusComplete {
			card.Stems = stemControls(job.Stems)
		}
		created := card.clone()
		return card, Delta{JobID: job.ID, Created: true, Card: &created}
	}

	card := prev.clone()
	delta := Delta{JobID: card.JobID}

	if card.URL == "" && job.URL != "" {
		card.URL = job.URL
	}

	switch {
	case job.Title != "" && (!card.TitleKnown || job.Title != card.Title):
		card.Title = job.Title
		card.TitleKnown = true
		delta.Title = strPtr(card.Title)
	case !card.TitleKnown && card.Title == card.JobID && card.URL != "":
		card.Title = card.URL
		delta.Title = strPtr(card.Title)
	}

	// terminal cards are frozen
	if !prev.Terminal() {
		if job.Status != card.Status {
			card.Status = job.Status
			status := card.Status
			delta.Status = &status
		}
		if job.Progress != card.Progress {
			card.Progress = job.Progress
			progress := card.Progress
			delta.Progress = &progress
		}
		if job.Message != card.Message {
			card.Message = job.Message
			delta.Message = strPtr(card.Message)
		}
	}

	if card.Status == model.JobStatusComplete && job.Status == model.JobStatusComplete &&
		len(card.Stems) == 0 && len(job.Stems) > 0 {
		card.Stems = stemControls(job.Stems)
		delta.Stems = append([]StemControl(nil), card.Stems...)
	}

	return card, delta
}

func initialTitle(id, url, title string) (string, bool) {
	if title != "" {
		return title, true
	}
	if url != "" {
		return url, false
	}
	return id, false
}

func stemControls(stems map[string]string) []StemControl {
	if len(stems) == 0 {
		return nil
	}
	names := make([]string, 0, len(stems))
	for name := range stems {
		names = append(names, name)
	}
	sort.Strings(names)

	controls := make([]StemControl, 0, len(names))
	for _, name := range names {
		controls = append(controls, StemControl{Name: name, Resource: stems[name]})
	}
	return controls
}

func (c *Card) clone() Card {
	out := *c
	if c.Stems != nil {
		out.Stems = append([]StemControl(nil), c.Stems...)
	}
	return out
}

func strPtr(s string) *string {
	return &s
}
