package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/breakwatch/breakwatch/pkg/cli"
	"github.com/breakwatch/breakwatch/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewCLI(cli.NewConfig())
	if err := app.ExecuteContext(ctx, os.Args[1:]); err != nil {
		logger.NewConsoleLogger().Error(err.Error())
		os.Exit(1)
	}
}
