package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/lysyi3m/bonikbarta-rss/app/feed"
)

var ErrNoPosts = errors.New("no posts fetched")

type GenerateFeedTask struct {
	Task
	FeedConfig  *feed.Config
	fetcher     *feed.Fetcher
	aggregator  *feed.Aggregator
	generator   *feed.Generator
	writer      *feed.Writer
	failOnEmpty bool
	now         func() time.Time
}

func NewGenerateFeedTask(feedConfig *feed.Config, fetcher *feed.Fetcher, generator *feed.Generator, writer *feed.Writer, failOnEmpty bool) *GenerateFeedTask {
	return &GenerateFeedTask{
		Task:        NewTask(TaskTypeGenerateFeed, feedConfig.Name),
		FeedConfig:  feedConfig,
		fetcher:     fetcher,
		aggregator:  feed.NewAggregator(feedConfig),
		generator:   generator,
		writer:      writer,
		failOnEmpty: failOnEmpty,
		now:         time.Now,
	}
}

func (t *GenerateFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	ctx = slogctx.With(ctx, "feed", t.FeedName)
	logger := slogctx.FromCtx(ctx)

	if !t.FeedConfig.Settings.IsEnabled() {
		logger.DebugContext(ctx, "Feed disabled, skipping")
		return nil
	}

	fetched := t.fetcher.Run(ctx, t.FeedConfig.Endpoints)

	if len(fetched.Failures) == len(t.FeedConfig.Endpoints) {
		logger.WarnContext(ctx, "All endpoints failed", "endpoints", len(t.FeedConfig.Endpoints))
	}

	if len(fetched.Posts) == 0 && t.failOnEmpty {
		return fmt.Errorf("%w from %d endpoints (%d failed)", ErrNoPosts, len(t.FeedConfig.Endpoints), len(fetched.Failures))
	}

	aggregated := t.aggregator.Run(fetched.Posts)

	document, err := t.generator.Run(t.FeedConfig, aggregated.Posts, t.now())
	if err != nil {
		return fmt.Errorf("failed to render feed: %w", err)
	}

	if err := feed.Validate(document, len(aggregated.Posts)); err != nil {
		return fmt.Errorf("rendered feed is invalid: %w", err)
	}

	if err := t.writer.Run(t.FeedConfig.Output, document); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	logger.InfoContext(ctx, "Task completed",
		"type", "GenerateFeed",
		"duration", t.GetDuration(),
		"endpoints", len(t.FeedConfig.Endpoints),
		"failed", len(fetched.Failures),
		"fetched", len(fetched.Posts),
		"unique", aggregated.Unique,
		"written", len(aggregated.Posts),
		"output", t.FeedConfig.Output)

	return nil
}
