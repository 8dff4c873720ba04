package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/user/listing-collector/internal/adapter/chromedp_browser"
	"github.com/user/listing-collector/internal/adapter/export"
	"github.com/user/listing-collector/internal/collector"
	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/usecase"
	"github.com/user/listing-collector/pkg/config"
	"github.com/user/listing-collector/pkg/logger"
	"github.com/user/listing-collector/pkg/metrics"
)

// CLIFlags override the environment configuration for a single run.
type CLIFlags struct {
	URL      string `help:"Listing URL to collect from" short:"u" default:"${url}"`
	Count    int    `help:"Number of product URLs to collect" short:"n" default:"${count}"`
	Out      string `help:"Directory for the spreadsheet and manifest" short:"o" default:"${out}"`
	Trim     bool   `help:"Drop items collected beyond the target" default:"${trim}" negatable:""`
	Headless bool   `help:"Run the browser without a window" default:"${headless}" negatable:""`
	Debug    bool   `help:"Enable debug logging"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	var flags CLIFlags
	kong.Parse(&flags,
		kong.Name("collector"),
		kong.Description("Collect product URLs from a load-more listing page and export them."),
		kong.Vars{
			"url":      cfg.TargetURL,
			"count":    strconv.Itoa(cfg.DesiredCount),
			"out":      cfg.OutputDir,
			"trim":     strconv.FormatBool(cfg.TrimOvershoot),
			"headless": strconv.FormatBool(cfg.Headless),
		},
	)

	logLevel := logger.ParseLevel(cfg.LogLevel)
	if flags.Debug {
		logLevel = slog.LevelDebug
	}
	logger.Init(os.Stdout, logLevel)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	browser := chromedp_browser.NewChromedpBrowser(chromedp_browser.Options{
		Headless:        flags.Headless,
		UserAgents:      cfg.UserAgentPool(),
		Proxies:         cfg.ProxyURLs,
		PageLoadTimeout: cfg.PageLoadTimeout(),
		ListWaitTimeout: cfg.ListWaitTimeout(),
	})

	runner := usecase.NewCollectionRunner(browser, export.NewFileExporter(), collector.Options{
		MaxAttempts: cfg.MaxAttempts,
		WaitTimeout: cfg.WaitTimeout(),
		RetryPause:  cfg.RetryPause(),
	})

	report, err := runner.Run(ctx, entity.RunConfig{
		SourceURL:     flags.URL,
		DesiredCount:  flags.Count,
		OutputDir:     flags.Out,
		TrimOvershoot: flags.Trim,
	})
	if err != nil {
		slog.Error("Collection run failed", "url", flags.URL, "error", err)
		os.Exit(1)
	}

	slog.Info("Successfully collected unique product URLs",
		"collected", len(report.Items),
		"target", report.TargetCount,
		"total_available", report.TotalAvailable,
		"outcome", report.Outcome,
		"spreadsheet", report.Artifacts.SpreadsheetPath,
		"manifest", report.Artifacts.ManifestPath,
	)
}
