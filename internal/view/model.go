package view

import (
	"sync"

	"github.com/stemsplitter/tracker/internal/model"
)

// Renderer applies deltas to a presentation. Render is called with the
// model lock held and must not call back into the Model.
type Renderer interface {
	Render(d Delta)
}

// Counts are the aggregate counters shown above the job list
type Counts struct {
	Active   int `json:"active"`
	Complete int `json:"complete"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// Model is the job-keyed view-state store of one session
type Model struct {
	mu       sync.RWMutex
	cards    map[string]*Card
	order    []string
	renderer Renderer
}

// NewModel creates an empty view model. renderer may be nil.
func NewModel(renderer Renderer) *Model {
	return &Model{
		cards:    make(map[string]*Card),
		renderer: renderer,
	}
}

// Track creates the pending card for a freshly submitted job. If the job
// already has a card only a missing URL is filled in.
func (m *Model) Track(id, url string) Delta {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := model.Job{
		ID:      id,
		URL:     url,
		Status:  StatusPending,
		Message: "Waiting for status...",
	}
	prev := m.cards[id]
	if prev != nil {
		job.Status = prev.Status
		job.Progress = prev.Progress
		job.Message = prev.Message
	}

	card, delta := Reconcile(prev, job)
	m.store(&card)
	m.render(delta)
	return delta
}

// Apply reconciles one observation and renders the resulting delta
func (m *Model) Apply(job model.Job) Delta {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.cards[job.ID]
	card, delta := Reconcile(prev, job)
	m.store(&card)
	m.render(delta)
	return delta
}

// Observe lets the Model act as the poll scheduler's sink
func (m *Model) Observe(job model.Job) {
	m.Apply(job)
}

// Card returns a copy of the card for id
func (m *Model) Card(id string) (Card, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cards[id]
	if !ok {
		return Card{}, false
	}
	return c.clone(), true
}

// Cards returns copies of every card in submission order
func (m *Model) Cards() []Card {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Card, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.cards[id].clone())
	}
	return out
}

func (m *Model) Counts() Counts {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var c Counts
	for _, card := range m.cards {
		switch card.Status {
		case model.JobStatusComplete:
			c.Complete++
		case model.JobStatusError:
			c.Failed++
		default:
			c.Active++
		}
	}
	c.Total = len(m.cards)
	return c
}

func (m *Model) store(card *Card) {
	if _, ok := m.cards[card.JobID]; !ok {
		m.order = append(m.order, card.JobID)
	}
	m.cards[card.JobID] = card
}

func (m *Model) render(d Delta) {
	if m.renderer == nil || d.Empty() {
		return
	}
	m.renderer.Render(d)
}
