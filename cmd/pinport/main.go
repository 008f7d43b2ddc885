package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pinport/pinport/internal/cli"
	"github.com/pinport/pinport/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		switch {
		case stderrors.Is(err, context.Canceled):
			os.Exit(130) // Standard shell convention for SIGINT
		case errors.Is(err, errors.ErrCodeAborted):
			// A deliberate abort is not a failure.
			fmt.Fprintln(os.Stderr, errors.UserMessage(err))
			os.Exit(0)
		default:
			fmt.Fprintln(os.Stderr, errors.UserMessage(err))
			os.Exit(1)
		}
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
