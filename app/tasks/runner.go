package tasks

import (
	"context"
	"errors"
	"fmt"

	slogctx "github.com/veqryn/slog-context"
)

// Runner executes tasks one at a time in order. A failed task does not stop
// the remaining ones.
type Runner struct{}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Run(ctx context.Context, tasks []TaskInterface) error {
	var errs []error

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := r.executeTask(ctx, task); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Runner) executeTask(ctx context.Context, task TaskInterface) error {
	task.Start()

	err := task.Execute(ctx)
	if err != nil {
		slogctx.FromCtx(ctx).ErrorContext(ctx, "Task execution failed",
			"type", string(task.GetType()),
			"id", task.GetID(),
			"feed", task.GetFeedName(),
			"duration", task.GetDuration(),
			"error", err)
		return fmt.Errorf("%s %s: %w", task.GetType(), task.GetFeedName(), err)
	}

	return nil
}
