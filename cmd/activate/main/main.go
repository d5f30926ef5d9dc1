package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/activate/cmd/activate"
	"github.com/arthur-debert/activate/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := activate.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Errors go to stderr only; stdout may be consumed by eval.
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		stop()
		os.Exit(1)
	}
}
