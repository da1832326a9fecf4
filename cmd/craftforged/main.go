package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"craftforge/internal/core"
	"craftforge/pkg/sdnotify"

	"github.com/joho/godotenv"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (yaml or json)")
	flag.Parse()

	// Optional .env for local runs; missing file is fine.
	_ = godotenv.Load()
	if p := os.Getenv("CRAFTFORGE_CONFIG"); p != "" {
		cfgPath = p
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := core.NewApp(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	if err := app.Start(ctx); err != nil {
		fmt.Println("fatal start:", err)
		os.Exit(1)
	}
	sdnotify.Ready()
	sdnotify.Status("running")

	reason := core.StopSignal
	select {
	case <-ctx.Done():
	case <-app.Done():
		if app.Err() != nil {
			reason = core.StopFatalError
		}
	}

	sdnotify.Stopping()
	sdnotify.Status("stopping: " + string(reason))
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx, reason); err != nil {
		fmt.Println("stop:", err)
	}
	if reason == core.StopFatalError {
		fmt.Println("fatal:", app.Err())
		os.Exit(1)
	}
}
