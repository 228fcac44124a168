package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/eidos-exchange/eidos/eidos-stark/internal/cli"
	"github.com/eidos-exchange/eidos/eidos-stark/pkg/logger"
)

// version 由 -ldflags "-X main.version=..." 注入
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.Execute(ctx, version)
	_ = logger.Sync()
	stop()
	if err != nil {
		os.Exit(1)
	}
}
