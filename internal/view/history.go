package view

import (
	"fmt"
	"time"

	"github.com/stemsplitter/tracker/internal/model"
)

// HistoryEntry is the rendered form of one completed job
type HistoryEntry struct {
	JobID     string        `json:"jobId"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Timestamp string        `json:"timestamp"`
	Stems     []StemControl `json:"stems"`
}

// NewHistoryEntries renders the history list relative to now, keeping
// backend order.
func NewHistoryEntries(jobs []model.Job, now time.Time) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(jobs))
	for _, job := range jobs {
		title, _ := initialTitle(job.ID, job.URL, job.Title)
		stems := stemControls(job.Stems)
		if stems == nil {
			stems = []StemControl{}
		}
		entries = append(entries, HistoryEntry{
			JobID:     job.ID,
			Title:     title,
			Message:   "Processed: " + FormatTimestamp(job.Timestamp, now),
			Timestamp: job.Timestamp,
			Stems:     stems,
		})
	}
	return entries
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders a backend timestamp relative to now. Timestamps
// without a zone are read in now's location; unparseable input is returned
// as is.
func FormatTimestamp(ts string, now time.Time) string {
	t, ok := parseTimestamp(ts, now.Location())
	if !ok {
		return ts
	}

	minutes := int(now.Sub(t) / time.Minute)
	if minutes < 1 {
		return "Just now"
	}
	if minutes < 60 {
		return plural(minutes, "minute") + " ago"
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hour") + " ago"
	}
	return t.Format("Jan 2, 2006")
}

func parseTimestamp(ts string, loc *time.Location) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
