// Package main provides the entry point of the ZOE API server
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/zoenutrition/zoe/internal/infrastructure/container"
)

func main() {
	configPath := flag.String("config", os.Getenv("ZOE_CONFIG"), "Configuration file path")
	flag.Parse()

	app := fx.New(
		fx.Supply(container.ConfigPath(*configPath)),
		container.Module,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait returns on SIGINT, SIGTERM or a Shutdowner call
	signal := <-app.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatalf("Failed to stop application gracefully: %v", err)
	}

	os.Exit(signal.ExitCode)
}
