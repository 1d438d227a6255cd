// Package work runs independent per-file tasks on a bounded worker pool.
package work

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/fulmenhq/codeutf8/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 100

// Result is the outcome of one task. Results are reported at the index of
// the item that produced them, whatever order the tasks finished in.
type Result[T any] struct {
	Index    int
	Value    T
	Err      error
	Duration time.Duration
}

// OK reports whether the task succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// ExecutionSummary provides a summary of the execution
type ExecutionSummary struct {
	TotalItems    int           `json:"total_items"`
	Successful    int           `json:"successful"`
	Failed        int           `json:"failed"`
	TotalDuration time.Duration `json:"total_duration"`
	Workers       int           `json:"workers"`
}

// DispatcherConfig configures a run
type DispatcherConfig struct {
	MaxWorkers int
	// ProgressCallback is invoked from the worker goroutine as each task
	// finishes. It must be safe for concurrent use.
	ProgressCallback func(index int, err error)
}

// PanicError wraps a panic recovered from a task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Run applies fn to every item using at most config.MaxWorkers goroutines
// and waits for all of them. A failing or panicking task never cancels its
// siblings. Once ctx is done, items not yet started fail with ctx.Err().
func Run[I, O any](ctx context.Context, config DispatcherConfig, items []I, fn func(context.Context, I) (O, error)) []Result[O] {
	workers := config.MaxWorkers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]Result[O], len(items))
	if len(items) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i := range items {
		i := i
		// Each task writes only its own slot.
		g.Go(func() error {
			res := &results[i]
			res.Index = i
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					res.Err = &PanicError{Value: r, Stack: debug.Stack()}
					logger.Debug("Recovered task panic", logger.Int("index", i), logger.String("panic", fmt.Sprint(r)))
				}
				res.Duration = time.Since(start)
				if config.ProgressCallback != nil {
					config.ProgressCallback(i, res.Err)
				}
			}()

			if err := ctx.Err(); err != nil {
				res.Err = err
				return nil
			}
			res.Value, res.Err = fn(ctx, items[i])
			return nil
		})
	}

	_ = g.Wait() // tasks never return an error to the group
	return results
}

// Summarize counts successes and failures.
func Summarize[T any](results []Result[T], workers int, elapsed time.Duration) ExecutionSummary {
	summary := ExecutionSummary{
		TotalItems:    len(results),
		TotalDuration: elapsed,
		Workers:       workers,
	}
	for _, r := range results {
		if r.OK() {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// String renders the summary for log output.
func (s ExecutionSummary) String() string {
	return fmt.Sprintf("%d successful, %d failed in %v", s.Successful, s.Failed, s.TotalDuration.Round(time.Millisecond))
}
