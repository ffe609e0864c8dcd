package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Concurrency limits.
const (
	DefaultConcurrency = 4
	MaxConcurrency     = 16
)

// Runner errors.
var (
	ErrInvalidConcurrency = fmt.Errorf("concurrency must be between 1 and %d", MaxConcurrency)
	ErrNilFunc            = errors.New("batch func cannot be nil")
)

// Func processes a single item.
type Func[T any] func(ctx context.Context, item T) error

// Result is the outcome of one item.
type Result[T any] struct {
	Item T
	Err  error
}

// ItemError ties a failure to its item.
type ItemError[T any] struct {
	Item T
	Err  error
}

func (e *ItemError[T]) Error() string { return fmt.Sprintf("%v: %v", e.Item, e.Err) }

func (e *ItemError[T]) Unwrap() error { return e.Err }

// Runner processes items with at most limit calls in flight.
type Runner[T any] struct {
	limit      int
	onProgress func(Progress)
}

// New returns a Runner with the given concurrency limit.
func New[T any](limit int) (*Runner[T], error) {
	if limit < 1 || limit > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, limit)
	}
	return &Runner[T]{limit: limit}, nil
}

// WithProgress sets a callback invoked after each item. Calls are serialised.
func (r *Runner[T]) WithProgress(fn func(Progress)) *Runner[T] {
	r.onProgress = fn
	return r
}

// Run calls fn once per item. Results are in input order. The returned error
// joins one *ItemError per failed item, or is the context error when the run
// was cancelled before every item started.
func (r *Runner[T]) Run(ctx context.Context, items []T, fn Func[T]) ([]Result[T], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	results := make([]Result[T], len(items))
	if len(items) == 0 {
		return results, nil
	}

	var (
		mu       sync.Mutex
		progress = Progress{Total: len(items)}
	)
	g := new(errgroup.Group)
	g.SetLimit(r.limit)

	for i, item := range items {
		results[i].Item = item
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = fn(ctx, item)
			}
			results[i].Err = err

			mu.Lock()
			defer mu.Unlock()
			progress.Done++
			if err != nil {
				progress.Failed++
			}
			if r.onProgress != nil {
				r.onProgress(progress)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, &ItemError[T]{Item: res.Item, Err: res.Err})
		}
	}
	return results, errors.Join(errs...)
}
