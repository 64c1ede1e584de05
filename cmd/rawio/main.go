package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/hupe1980/rawio/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.RootCmd(cmd.NewAppBuilder()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
