package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stemsplitter/tracker/internal/service"
)

var watchCmd = &cobra.Command{
	Use:   "watch <job-id>...",
	Short: "Follow jobs that were already submitted",
	Long: `Poll the given jobs until each one completes or fails. Useful to resume
tracking after stemctl was interrupted; job state lives on the backend.

Example:
  stemctl watch 3f6c2a1e 9b1d44c0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	return runTracking(cmd, true, func(ctx context.Context, s *service.Session) error {
		for _, id := range args {
			s.Scheduler.Register(id)
			s.Jobs.Track(id, "")
		}
		return nil
	})
}
