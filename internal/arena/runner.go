// Package arena contains the tournament orchestration engine: match
// scheduling, bounded-concurrency match execution, lifecycle state
// management, and the in-memory tournament store behind the front ends.
package arena

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is the per-task result of a batch run: either a value or the
// captured error, never both meaningful at once.
type Outcome[T any] struct {
	Value T
	Err   error
}

// RunAll executes independent tasks with at most limit running
// concurrently. It always returns one outcome per task in submission
// order, regardless of completion order. A task failure is captured into
// its outcome and never aborts siblings; the concurrency slot is
// released on every exit path. Callers pass cancellation through ctx.
func RunAll[T any](ctx context.Context, limit int, tasks []func(context.Context) (T, error)) []Outcome[T] {
	if limit < 1 {
		limit = 1
	}

	outcomes := make([]Outcome[T], len(tasks))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, task := range tasks {
		g.Go(func() error {
			value, err := task(ctx)
			outcomes[i] = Outcome[T]{Value: value, Err: err}
			return nil
		})
	}
	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()

	return outcomes
}
