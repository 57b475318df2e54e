package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/stemsplitter/tracker/internal/view"
)

// JobsTable writes the tracked cards and the session counters
func JobsTable(w io.Writer, cards []view.Card, counts view.Counts) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No tracked jobs")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "Status", "Progress", "Message", "Stems")
	for _, c := range cards {
		table.Append(
			c.JobID,
			c.Title,
			string(c.Status),
			progress(c.Progress),
			c.Message,
			stemNames(c.Stems),
		)
	}
	table.Render()

	fmt.Fprintf(w, "\nActive: %d  Complete: %d  Failed: %d\n", counts.Active, counts.Complete, counts.Failed)
}

// HistoryTable writes the rendered history list
func HistoryTable(w io.Writer, entries []view.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No completed jobs")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "Processed", "Stems")
	for _, e := range entries {
		table.Append(
			e.JobID,
			e.Title,
			e.Message,
			stemNames(e.Stems),
		)
	}
	table.Render()

	fmt.Fprintf(w, "\nTotal: %d\n", len(entries))
}

// ModelsTable writes the model list, marking the default
func ModelsTable(w io.Writer, models []string, defaultModel string) {
	table := tablewriter.NewWriter(w)
	table.Header("Model", "Default")
	for _, m := range models {
		mark := ""
		if m == defaultModel {
			mark = "✓"
		}
		table.Append(m, mark)
	}
	table.Render()
}
