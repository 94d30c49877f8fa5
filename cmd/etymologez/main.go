package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gezakerecsenyi/etymologez/internal/app"
	"github.com/gezakerecsenyi/etymologez/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(app.Version).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
