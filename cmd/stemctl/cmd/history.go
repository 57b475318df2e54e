package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/stemsplitter/tracker/internal/history"
	"github.com/stemsplitter/tracker/internal/render"
	"github.com/stemsplitter/tracker/internal/view"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed jobs",
	Long:  `Fetch the list of completed jobs and their stems from the backend, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validateOutput(); err != nil {
		return err
	}

	syncer := history.NewSynchronizer(newBackend(), history.Options{})
	if err := syncer.Refresh(cmd.Context()); err != nil {
		return err
	}

	entries := view.NewHistoryEntries(syncer.Snapshot(), time.Now())
	if handled, err := printStructured(stdout, entries); handled {
		return err
	}
	render.HistoryTable(stdout, entries)
	return nil
}
