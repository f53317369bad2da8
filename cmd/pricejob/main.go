// Package main runs one market price refresh and exits. It is meant to be
// scheduled by cron or a Kubernetes CronJob.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/infrastructure/container"
	"github.com/zoenutrition/zoe/internal/infrastructure/monitoring"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
)

func main() {
	var (
		configPath  = flag.String("config", os.Getenv("ZOE_CONFIG"), "Configuration file path")
		force       = flag.Bool("force", false, "Refresh every price regardless of age")
		timeout     = flag.Duration("timeout", 10*time.Minute, "Upper bound for the whole run")
		pushgateway = flag.String("pushgateway", os.Getenv("ZOE_PUSHGATEWAY"), "Prometheus Pushgateway URL for run metrics")
	)
	flag.Parse()

	var (
		prices  inbound.PriceService
		metrics *monitoring.Metrics
		logger  *zap.Logger
	)
	app := fx.New(
		fx.Supply(container.ConfigPath(*configPath)),
		container.Core,
		fx.Populate(&prices, &metrics, &logger),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("Failed to start price job: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancelRun := context.WithTimeout(ctx, *timeout)
	code := run(ctx, prices, metrics, logger, *force, *pushgateway)
	cancelRun()
	stop()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.Error("Failed to stop price job cleanly", zap.Error(err))
	}
	os.Exit(code)
}

func run(ctx context.Context, prices inbound.PriceService, metrics *monitoring.Metrics, logger *zap.Logger, force bool, pushgateway string) int {
	logger = logger.Named("pricejob")

	result, err := prices.UpdatePrices(ctx, force)
	if result != nil {
		metrics.PriceUpdateFinished(result.Updated, result.Skipped, result.Failed)
		logger.Info("Price job finished",
			zap.Int("updated", result.Updated),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
	}

	if pushgateway != "" {
		if perr := push.New(pushgateway, "zoe_pricejob").Gatherer(metrics.Registry()).Push(); perr != nil {
			logger.Warn("Failed to push metrics", zap.String("url", pushgateway), zap.Error(perr))
		}
	}

	if err != nil {
		logger.Error("Price job failed", zap.Error(err))
		return 1
	}
	return 0
}
