// cmd/outreach/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/unclebandit/outreach-assistant/internal/config"
	"github.com/unclebandit/outreach-assistant/internal/generator"
	"github.com/unclebandit/outreach-assistant/internal/logging"
	"github.com/unclebandit/outreach-assistant/internal/sender"
	"github.com/unclebandit/outreach-assistant/internal/service"
	"github.com/unclebandit/outreach-assistant/internal/sheets"
)

// interMessageDelay throttles outbound calls between leads.
const interMessageDelay = time.Second

func main() {
	testMode := pflag.Bool("test", false, "Run in test mode (no actual sending)")
	testConnections := pflag.Bool("test-connections", false, "Test all API connections")
	retryFailed := pflag.Bool("retry-failed", false, "Reset failed leads to pending")
	listSheets := pflag.Bool("list-sheets", false, "List available sheet tabs and exit")
	sheetName := pflag.String("sheet-name", "outreach_leads", "Name of the Google Sheet tab")
	pflag.Parse()

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", zap.Error(err))
		logger.Error("please check your .env file and ensure all variables are set")
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("environment variables loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, cfg, logger, *sheetName, *testMode, *testConnections, *retryFailed, *listSheets)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("campaign interrupted by user")
			return
		}
		logger.Error("application error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, sheetName string, testMode, testConnections, retryFailed, listSheets bool) error {
	store, err := sheets.NewStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if listSheets {
		titles, err := store.ListSheets(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Available sheets:")
		for _, title := range titles {
			fmt.Println("  -", title)
		}
		return nil
	}

	gen, err := generator.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	campaign := &service.CampaignService{
		Store:     store,
		Generator: gen,
		Sender:    sender.New(cfg, logger),
		Logger:    logger,
		Delay:     interMessageDelay,
	}
	logger.Info("all components initialized successfully")

	switch {
	case testConnections:
		campaign.TestConnections(ctx, sheetName)
		return nil
	case retryFailed:
		_, err := campaign.RetryFailed(ctx, sheetName)
		return err
	default:
		_, err := campaign.Run(ctx, sheetName, testMode)
		return err
	}
}
