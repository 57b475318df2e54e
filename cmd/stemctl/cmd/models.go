package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stemsplitter/tracker/internal/render"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the separation models offered by the backend",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	if err := validateOutput(); err != nil {
		return err
	}

	models, err := newBackend().ListModels(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	if handled, err := printStructured(stdout, models); handled {
		return err
	}
	render.ModelsTable(stdout, models, defaultModel())
	return nil
}
