package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/merrycards/merry/internal/buildinfo"
	"github.com/merrycards/merry/internal/client/cli"
	"github.com/merrycards/merry/internal/client/config"
	"github.com/merrycards/merry/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	// Ctrl+C is scoped per command by the REPL; SIGTERM ends the program.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)

}
