package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
