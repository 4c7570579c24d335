package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketomega/skill-agent/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.L.WithError(err).Fatal("skillagent failed")
	}
}
