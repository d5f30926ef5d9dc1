package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/activate/cmd/activate"
	"github.com/arthur-debert/activate/internal/version"
)

func main() {
	rootCmd := activate.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ACTIVATE",
		Section: "1",
		Source:  "activate " + version.Version,
		Manual:  "activate manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
