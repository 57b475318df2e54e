package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stemsplitter/tracker/internal/service"
	"github.com/stemsplitter/tracker/internal/sources"
)

var (
	batchModel  string
	batchFile   string
	batchFollow bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [url...]",
	Short: "Submit several URLs in one request",
	Long: `Submit URLs given as arguments, or one per line from a file or stdin.
Unsupported URLs are skipped and reported; the rest are sent together.

Example:
  stemctl batch https://youtu.be/a https://soundcloud.com/b
  stemctl batch --file urls.txt
  cat urls.txt | stemctl batch --file -`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchModel, "model", "m", "", "separation model (default from config or htdemucs)")
	batchCmd.Flags().StringVar(&batchFile, "file", "", "read URLs from a file, one per line (- for stdin)")
	batchCmd.Flags().BoolVarP(&batchFollow, "follow", "f", true, "poll the jobs until they complete or fail")
}

func runBatch(cmd *cobra.Command, args []string) error {
	urls, err := collectURLs(args, batchFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given")
	}

	return runTracking(cmd, batchFollow, func(ctx context.Context, s *service.Session) error {
		_, err := s.Submissions.SubmitBatch(ctx, urls, batchModel)
		return err
	})
}

// collectURLs merges argument URLs with the lines of file
func collectURLs(args []string, file string, stdin io.Reader) ([]string, error) {
	urls := append([]string(nil), args...)
	if file == "" {
		return urls, nil
	}

	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read URLs: %w", err)
	}

	return append(urls, sources.SplitLines(string(data))...), nil
}
