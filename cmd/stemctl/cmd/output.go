package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

func validateOutput() error {
	switch outputFormat {
	case "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (use table, json or yaml)", outputFormat)
	}
}

// printStructured writes v as JSON or YAML and reports whether it did;
// table output is left to the caller.
func printStructured(w io.Writer, v interface{}) (bool, error) {
	switch outputFormat {
	case "json":
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return true, nil
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return true, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return true, encoder.Close()
	default:
		return false, nil
	}
}

var stdout io.Writer = os.Stdout
