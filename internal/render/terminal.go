package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/stemsplitter/tracker/internal/model"
	"github.com/stemsplitter/tracker/internal/view"
)

// Terminal prints job deltas and toasts as lines of text
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, now: time.Now}
}

// Render prints one line per delta
func (t *Terminal) Render(d view.Delta) {
	if d.Empty() {
		return
	}

	var line string
	if d.Created && d.Card != nil {
		line = fmt.Sprintf("+ %s  %s  %s  %s",
			shortID(d.JobID), d.Card.Title, d.Card.Status, progress(d.Card.Progress))
		if d.Card.Message != "" {
			line += "  " + d.Card.Message
		}
		if len(d.Card.Stems) > 0 {
			line += "  stems: " + stemNames(d.Card.Stems)
		}
	} else {
		parts := make([]string, 0, 5)
		if d.Title != nil {
			parts = append(parts, fmt.Sprintf("title=%q", *d.Title))
		}
		if d.Status != nil {
			parts = append(parts, "status="+string(*d.Status))
		}
		if d.Progress != nil {
			parts = append(parts, "progress="+progress(*d.Progress))
		}
		if d.Message != nil {
			parts = append(parts, fmt.Sprintf("message=%q", *d.Message))
		}
		if len(d.Stems) > 0 {
			parts = append(parts, "stems: "+stemNames(d.Stems))
		}
		line = fmt.Sprintf("~ %s  %s", shortID(d.JobID), strings.Join(parts, " "))
	}

	t.println(line)
}

// Notify prints a toast with its level marker
func (t *Terminal) Notify(level, message string) {
	t.println(fmt.Sprintf("%s %s", levelIcon(level), message))
}

func (t *Terminal) println(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s %s\n", t.now().Format("15:04:05"), line)
}

func levelIcon(level string) string {
	switch level {
	case model.LevelSuccess:
		return "✓"
	case model.LevelError:
		return "✗"
	case model.LevelWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

func progress(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

func stemNames(stems []view.StemControl) string {
	names := make([]string, 0, len(stems))
	for _, s := range stems {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

// shortID keeps long generated ids readable in a terminal
func shortID(id string) string {
	if len(id) > 12 {
		return id[:8]
	}
	return id
}
