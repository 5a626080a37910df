// Package parallel provides the worker pool used to fan kernel work-items
// out across goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// NumWorkers returns the default number of workers for parallel operations.
func NumWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// For executes fn for indices [start, end) using n workers.
// The range is split into contiguous chunks, one per worker. Cancellation of
// ctx is observed before each chunk starts.
func For(ctx context.Context, start, end, n int, fn func(i int)) error {
	return ForChunked(ctx, start, end, 0, n, func(s, e int) {
		for i := s; i < e; i++ {
			fn(i)
		}
	})
}

// ForChunked executes fn for chunks of indices.
// fn receives (chunkStart, chunkEnd) for each chunk. A chunkSize of 0 picks
// one chunk per worker.
func ForChunked(ctx context.Context, start, end, chunkSize, n int, fn func(chunkStart, chunkEnd int)) error {
	total := end - start
	if total <= 0 {
		return ctx.Err()
	}
	if n <= 0 {
		n = NumWorkers()
	}
	if chunkSize <= 0 {
		chunkSize = (total + n - 1) / n
	}

	if n == 1 {
		for s := start; s < end; s += chunkSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(s, min(s+chunkSize, end))
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for s := start; s < end; s += chunkSize {
		e := min(s+chunkSize, end)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(s, e)
			return nil
		})
	}
	return g.Wait()
}
