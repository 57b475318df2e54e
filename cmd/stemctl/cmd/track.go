package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stemsplitter/tracker/internal/render"
	"github.com/stemsplitter/tracker/internal/service"
	"github.com/stemsplitter/tracker/internal/view"
)

type jobsOutput struct {
	Jobs   []view.Card `json:"jobs" yaml:"jobs"`
	Counts view.Counts `json:"counts" yaml:"counts"`
}

// runTracking starts a session that renders to stderr, runs start and, when
// follow is set, waits until every poll loop has ended or the user
// interrupts. The final job table goes to stdout.
func runTracking(cmd *cobra.Command, follow bool, start func(ctx context.Context, s *service.Session) error) error {
	if err := validateOutput(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := render.NewTerminal(os.Stderr)
	session := service.NewSession(newBackend(), service.SessionConfig{
		PollInterval:    pollInterval,
		HistoryInterval: time.Hour,
		DefaultModel:    defaultModel(),
	}, term, term, nil, nil)

	if err := start(ctx, session); err != nil {
		session.Stop()
		return err
	}

	if follow {
		fmt.Fprintln(os.Stderr, "Following jobs (press Ctrl+C to stop)...")
		done := make(chan struct{})
		go func() {
			session.Scheduler.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "\nInterrupted, jobs keep running on the backend")
		}
	}
	session.Stop()

	out := jobsOutput{Jobs: session.Jobs.Cards(), Counts: session.Jobs.Counts()}
	if handled, err := printStructured(stdout, out); handled {
		return err
	}
	fmt.Fprintln(stdout)
	render.JobsTable(stdout, out.Jobs, out.Counts)
	return nil
}
