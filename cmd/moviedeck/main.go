package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, cmdCtx := newRootCommand()
	if err := execute(ctx, cmd, cmdCtx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// execute runs cmd and releases the controller and logger whether or not the
// command failed.
func execute(ctx context.Context, cmd *cobra.Command, cmdCtx *commandContext) error {
	defer cmdCtx.close()
	return cmd.ExecuteContext(ctx)
}
