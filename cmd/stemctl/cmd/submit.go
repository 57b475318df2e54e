package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stemsplitter/tracker/internal/service"
)

var (
	submitModel  string
	submitFollow bool
)

var submitCmd = &cobra.Command{
	Use:   "submit <url>",
	Short: "Submit one URL for stem separation",
	Long: `Submit a YouTube or SoundCloud URL to the backend and follow the job
until its stems are ready.

Example:
  stemctl submit https://www.youtube.com/watch?v=abc
  stemctl submit soundcloud.com/artist/track --model htdemucs_6s
  stemctl submit https://youtu.be/abc --follow=false --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&submitModel, "model", "m", "", "separation model (default from config or htdemucs)")
	submitCmd.Flags().BoolVarP(&submitFollow, "follow", "f", true, "poll the job until it completes or fails")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	return runTracking(cmd, submitFollow, func(ctx context.Context, s *service.Session) error {
		_, err := s.Submissions.SubmitSingle(ctx, args[0], submitModel)
		return err
	})
}
