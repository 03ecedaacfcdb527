// Package workerpool provides bounded concurrent fan-out helpers.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Process runs process for every item on at most workerCount goroutines.
// The first error cancels the shared context and is returned once all started
// work has finished.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) error,
) error {
	g, ctx := errgroup.WithContext(ctx)
	if workerCount > 0 {
		g.SetLimit(workerCount)
	}

	for _, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return process(ctx, item)
		})
	}

	return g.Wait()
}

// Map is Process that keeps one result per item, at the item's index.
// Either every item succeeds or the first error is returned with no results.
func Map[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	fn func(context.Context, T) (R, error),
) ([]R, error) {
	results := make([]R, len(items))
	indexes := make([]int, len(items))
	for i := range indexes {
		indexes[i] = i
	}

	err := Process(ctx, workerCount, indexes, func(ctx context.Context, i int) error {
		res, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
