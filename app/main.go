package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/lysyi3m/bonikbarta-rss/app/cfg"
	"github.com/lysyi3m/bonikbarta-rss/app/feed"
	"github.com/lysyi3m/bonikbarta-rss/app/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}
	if appCfg == nil {
		// Help was shown
		return 0
	}

	setupLogging(appCfg.Debug)

	if err := appCfg.ApplyTimezone(); err != nil {
		slog.Warn("Using system default timezone", "error", err)
	}

	slog.Info("Starting feed generation", "version", appCfg.Version, "feeds_dir", appCfg.FeedsDir)

	feedConfigs, err := feed.NewConfigLoader(appCfg.FeedsDir).Run()
	if err != nil {
		slog.Error("Failed to load feed definitions", "error", err)
		return 1
	}

	if appCfg.Output != "" {
		if len(feedConfigs) > 1 {
			slog.Error("Output override requires a single feed definition", "feeds", len(feedConfigs))
			return 1
		}
		feedConfigs[0].Output = appCfg.Output
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = slogctx.NewCtx(ctx, slog.Default())

	httpClient := &http.Client{}
	generator := feed.NewGenerator(fmt.Sprintf("Bonikbarta-RSS/%s", appCfg.Version))
	writer := feed.NewWriter()

	taskList := make([]tasks.TaskInterface, 0, len(feedConfigs))
	for _, feedConfig := range feedConfigs {
		timeout := cmp.Or(appCfg.Timeout, feedConfig.Settings.GetTimeout())
		fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent, timeout)
		taskList = append(taskList, tasks.NewGenerateFeedTask(feedConfig, fetcher, generator, writer, appCfg.FailOnEmpty))
	}

	start := time.Now()
	if err := tasks.NewRunner().Run(ctx, taskList); err != nil {
		slog.Error("Feed generation failed", "duration", time.Since(start), "error", err)
		return 1
	}

	slog.Info("Feed generation completed", "feeds", len(taskList), "duration", time.Since(start))
	return 0
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
