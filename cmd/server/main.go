package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file; defaults are used when empty")
	shutdownTimeout := flag.Duration("shutdown-timeout", 10*time.Second, "grace period for spectators on shutdown")
	flag.Parse()

	app, err := injector.InitializeApp(injector.ConfigPath(*configPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error starting server:", err)
		os.Exit(1)
	}
	logger := app.Logger
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Server.Start(ctx); err != nil {
		logger.Fatal("Error starting server", log.Error(err))
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return app.Match.Run(ctx)
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
		defer cancel()
		return app.Server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("Server stopped with error", log.Error(err))
		os.Exit(1)
	}
	logger.Info("Bye")
}
