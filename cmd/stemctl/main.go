package main

import (
	"os"

	"github.com/stemsplitter/tracker/cmd/stemctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
