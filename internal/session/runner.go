package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/logging"
)

// Lane identifies one stream of requests. Each lane has at most one
// outstanding request.
type Lane int

// Request lanes.
const (
	CollectionLane Lane = iota
	SearchLane
	laneCount
)

func (l Lane) String() string {
	switch l {
	case CollectionLane:
		return "collection"
	case SearchLane:
		return "search"
	default:
		return fmt.Sprintf("Lane(%d)", int(l))
	}
}

// Result is the outcome of one executed command. Exactly one of Page or
// Results is meaningful, selected by Lane.
type Result struct {
	Lane    Lane
	Seq     uint64
	Query   collector.Query
	Search  string
	Page    collector.CollectionPage
	Results []collector.SearchResult
	Err     error
}

// Deliver receives results. It is called from runner goroutines, never
// while the runner lock is held.
type Deliver func(Result)

type lane struct {
	seq    uint64
	cancel context.CancelFunc
	timer  *time.Timer
}

// Runner executes Commands. A new command on a lane cancels the lane's
// in-flight request and pending debounce timer; results of superseded or
// aborted requests are dropped.
type Runner struct {
	collection collector.CollectionQueryService
	searcher   collector.CardSearcher
	debounce   time.Duration
	deliver    Deliver
	logger     zerolog.Logger

	mu     sync.Mutex
	lanes  [laneCount]lane
	closed bool
	wg     sync.WaitGroup
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDebounce overrides DebounceWindow.
func WithDebounce(d time.Duration) RunnerOption {
	return func(r *Runner) { r.debounce = d }
}

// WithRunnerLogger sets the runner logger.
func WithRunnerLogger(l zerolog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logging.ComponentLogger(l, "session") }
}

// NewRunner returns a Runner that reports through deliver.
func NewRunner(collection collector.CollectionQueryService, searcher collector.CardSearcher,
	deliver Deliver, opts ...RunnerOption) *Runner {
	r := &Runner{
		collection: collection,
		searcher:   searcher,
		debounce:   DebounceWindow,
		deliver:    deliver,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs cmd and returns the sequence number its result will carry,
// or 0 when no request is issued (NoOp, CancelPending). ctx bounds the
// request; cancelling it aborts silently.
func (r *Runner) Execute(ctx context.Context, cmd Command) uint64 {
	var l Lane
	var debounce bool
	switch c := cmd.(type) {
	case FetchCollection:
		l, debounce = CollectionLane, c.Debounce
	case FetchSearch:
		l, debounce = SearchLane, c.Debounce
	case CancelPending:
		r.cancel(c.Lane)
		return 0
	default:
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0
	}

	ln := &r.lanes[l]
	ln.seq++
	seq := ln.seq
	r.supersedeLocked(ln)

	if debounce && r.debounce > 0 {
		r.wg.Add(1)
		ln.timer = time.AfterFunc(r.debounce, func() {
			defer r.wg.Done()
			r.start(ctx, l, seq, cmd)
		})
		return seq
	}

	reqCtx, cancel := context.WithCancel(ctx)
	ln.cancel = cancel
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(reqCtx, cancel, l, seq, cmd)
	}()
	return seq
}

// cancel invalidates the latest sequence number of lane l, so a pending
// timer never fires and an in-flight result is dropped.
func (r *Runner) cancel(l Lane) {
	if l < 0 || l >= laneCount {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	ln := &r.lanes[l]
	ln.seq++
	r.supersedeLocked(ln)
}

// supersedeLocked stops the lane's pending timer and cancels its in-flight
// request. The caller holds r.mu.
func (r *Runner) supersedeLocked(ln *lane) {
	if ln.timer != nil {
		if ln.timer.Stop() {
			// The timer callback will never run, so release its slot.
			r.wg.Done()
		}
		ln.timer = nil
	}
	if ln.cancel != nil {
		ln.cancel()
		ln.cancel = nil
	}
}

// start runs a debounced command once its timer fires, unless it was
// superseded in the meantime.
func (r *Runner) start(ctx context.Context, l Lane, seq uint64, cmd Command) {
	r.mu.Lock()
	ln := &r.lanes[l]
	if r.closed || ln.seq != seq {
		r.mu.Unlock()
		return
	}
	ln.timer = nil
	reqCtx, cancel := context.WithCancel(ctx)
	ln.cancel = cancel
	r.mu.Unlock()

	r.run(reqCtx, cancel, l, seq, cmd)
}

func (r *Runner) run(ctx context.Context, cancel context.CancelFunc, l Lane, seq uint64, cmd Command) {
	defer cancel()

	res := Result{Lane: l, Seq: seq}
	switch c := cmd.(type) {
	case FetchCollection:
		res.Query = c.Query
		res.Page, res.Err = r.collection.FetchPage(ctx, c.Query)
	case FetchSearch:
		res.Search = c.Query
		res.Results, res.Err = r.searcher.Search(ctx, c.Query)
	}

	if res.Err != nil {
		if errors.Is(res.Err, collector.ErrAborted) || errors.Is(res.Err, context.Canceled) {
			r.logger.Debug().Str("operation", l.String()).Uint64("seq", seq).Msg("request aborted")
			return
		}
		res.Err = classify(res.Err)
	}

	r.mu.Lock()
	ln := &r.lanes[l]
	current := !r.closed && ln.seq == seq
	if current {
		ln.cancel = nil
	}
	r.mu.Unlock()

	if !current {
		r.logger.Debug().Str("operation", l.String()).Uint64("seq", seq).Msg("dropping superseded result")
		return
	}
	if res.Err != nil {
		r.logger.Warn().Err(res.Err).Str("operation", l.String()).Uint64("seq", seq).Msg("request failed")
	}
	if r.deliver != nil {
		r.deliver(res)
	}
}

// classify keeps errors the user can act on and folds everything else into
// ErrTransient.
func classify(err error) error {
	var svcErr *collector.ServiceError
	switch {
	case errors.As(err, &svcErr),
		errors.Is(err, collector.ErrTransient),
		errors.Is(err, collector.ErrValidation),
		errors.Is(err, collector.ErrUnauthorized):
		return err
	default:
		return fmt.Errorf("%w: %w", collector.ErrTransient, err)
	}
}

// Current returns the latest sequence number issued on lane l. A result
// whose Seq differs is stale.
func (r *Runner) Current(l Lane) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lanes[l].seq
}

// Close cancels everything outstanding and rejects further commands.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	for i := range r.lanes {
		r.supersedeLocked(&r.lanes[i])
	}
	r.mu.Unlock()
}

// Wait blocks until every started request and pending timer has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
