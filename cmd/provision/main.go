package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/joho/godotenv"

	"github.com/hoopsight/nba-datalake/internal/app"
	"github.com/hoopsight/nba-datalake/internal/config"
	"github.com/hoopsight/nba-datalake/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Local runs keep credentials in a .env file; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := app.LoadAWSConfig(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aws configuration: %v\n", err)
		return 2
	}

	var logsAPI observability.CloudWatchLogsAPI
	if cfg.CloudWatchEnabled {
		logsAPI = cloudwatchlogs.NewFromConfig(awsCfg)
	}

	logger, flush, err := observability.InitCloudWatchLogger(cfg, logsAPI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialize logging: %v\n", err)
		return 2
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := flush(flushCtx); err != nil {
			fmt.Fprintf(os.Stderr, "flush logs: %v\n", err)
		}
	}()

	service := app.NewProvisionService(cfg, awsCfg, logger)
	report := service.Run(ctx)

	if report.Failed() {
		logger.Warn("provisioning finished with failures", "failed_steps", report.FailedSteps())
		if cfg.StrictExit {
			return 1
		}
	}

	return 0
}
