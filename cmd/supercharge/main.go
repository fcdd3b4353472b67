package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/superchargeai/supercharge/internal/cmd"
	"github.com/superchargeai/supercharge/internal/exitcode"
)

// All diagnostics go to stderr; stdout belongs to the hook protocol
// and to output the orchestrator captures (task UUIDs, worker JSON).
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(os.Stderr, "interrupted")
		exitcode.Exit(exitcode.Interrupted)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exitcode.ExitWithError(err)
}
