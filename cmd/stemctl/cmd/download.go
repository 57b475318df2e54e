package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var downloadOut string

var downloadCmd = &cobra.Command{
	Use:   "download <job-id> <stem>",
	Short: "Download one separated stem",
	Long: `Download a stem of a completed job to a local file.

Example:
  stemctl download 3f6c2a1e vocals
  stemctl download 3f6c2a1e drums -o drums.wav`,
	Args: cobra.ExactArgs(2),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "output file (default <stem>.wav)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	jobID, stem := args[0], args[1]
	path := downloadOut
	if path == "" {
		path = stem + ".wav"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := newBackend().Download(cmd.Context(), jobID, stem, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Downloaded %s (%d bytes) to %s\n", stem, n, path)
	return nil
}
