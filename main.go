package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/flux/cli"
	"github.com/ardnew/flux/cli/cmd"
	"github.com/ardnew/flux/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		// Program errors have already been reported on stderr.
		if !errors.Is(err, cmd.ErrProgramFailed) &&
			!errors.Is(err, context.Canceled) {
			log.Error(
				"run failed",
				slog.Any("error", err),
			) // slog automatically uses LogValue()
		}

		os.Exit(1)
	}
}
