package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/pagination"
)

// fakeService answers collection and search requests. A request for a page
// listed in block waits until its context ends.
type fakeService struct {
	mu       sync.Mutex
	pages    []int
	filters  []string
	searches []string
	block    map[int]bool
	err      error
}

func (f *fakeService) FetchPage(ctx context.Context, q collector.Query) (collector.CollectionPage, error) {
	f.mu.Lock()
	f.pages = append(f.pages, q.Page)
	f.filters = append(f.filters, q.Search)
	blocked := f.block[q.Page]
	err := f.err
	f.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return collector.CollectionPage{}, fmt.Errorf("%w: /get_collection", collector.ErrAborted)
	}
	if err != nil {
		return collector.CollectionPage{}, err
	}
	return collector.CollectionPage{TotalPages: 10, Cards: []collector.Card{{Name: fmt.Sprintf("page-%d", q.Page)}}}, nil
}

func (f *fakeService) Search(ctx context.Context, query string) ([]collector.SearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: /search", collector.ErrAborted)
	}
	return []collector.SearchResult{{Name: query}}, nil
}

func (f *fakeService) requestedPages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages...)
}

func (f *fakeService) requestedFilters() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.filters...)
}

func (f *fakeService) requestedSearches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

type sink struct {
	mu      sync.Mutex
	results []Result
}

func (s *sink) deliver(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *sink) all() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

func fetchPage(page int, debounce bool) FetchCollection {
	return FetchCollection{Query: collector.Query{Page: page, Sort: pagination.SortByName}, Debounce: debounce}
}

func TestRunner_ImmediateFetch(t *testing.T) {
	svc := &fakeService{}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver)

	seq := r.Execute(context.Background(), fetchPage(2, false))
	r.Wait()

	require.Len(t, out.all(), 1)
	res := out.all()[0]
	assert.Equal(t, CollectionLane, res.Lane)
	assert.Equal(t, seq, res.Seq)
	assert.Equal(t, seq, r.Current(CollectionLane))
	assert.Equal(t, "page-2", res.Page.Cards[0].Name)
	assert.Equal(t, 10, res.Page.TotalPages)
	require.NoError(t, res.Err)
}

func TestRunner_NoOp(t *testing.T) {
	r := NewRunner(&fakeService{}, &fakeService{}, nil)
	assert.Zero(t, r.Execute(context.Background(), NoOp{}))
	r.Wait()
}

func TestRunner_NewFetchCancelsPrevious(t *testing.T) {
	svc := &fakeService{block: map[int]bool{1: true}}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver)
	ctx := context.Background()

	r.Execute(ctx, fetchPage(1, false))
	require.Eventually(t, func() bool { return len(svc.requestedPages()) == 1 }, time.Second, 5*time.Millisecond)

	second := r.Execute(ctx, fetchPage(2, false))
	r.Wait()

	results := out.all()
	require.Len(t, results, 1, "the aborted first request is never surfaced")
	assert.Equal(t, second, results[0].Seq)
	assert.Equal(t, "page-2", results[0].Page.Cards[0].Name)
}

func TestRunner_DebounceCoalesces(t *testing.T) {
	svc := &fakeService{}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver, WithDebounce(40*time.Millisecond))
	ctx := context.Background()

	for _, q := range []string{"sho", "shoc", "shock"} {
		r.Execute(ctx, FetchSearch{Query: q, Debounce: true})
		time.Sleep(5 * time.Millisecond)
	}
	r.Wait()

	assert.Equal(t, []string{"shock"}, svc.requestedSearches())
	results := out.all()
	require.Len(t, results, 1)
	assert.Equal(t, SearchLane, results[0].Lane)
	assert.Equal(t, "shock", results[0].Search)
	assert.Equal(t, "shock", results[0].Results[0].Name)
}

func TestRunner_ImmediateCancelsPendingDebounce(t *testing.T) {
	svc := &fakeService{}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver, WithDebounce(time.Hour))
	ctx := context.Background()

	r.Execute(ctx, fetchPage(1, true))
	r.Execute(ctx, fetchPage(3, false))
	r.Wait()

	assert.Equal(t, []int{3}, svc.requestedPages())
	require.Len(t, out.all(), 1)
}

func TestRunner_LanesAreIndependent(t *testing.T) {
	svc := &fakeService{}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver)
	ctx := context.Background()

	r.Execute(ctx, fetchPage(1, false))
	r.Execute(ctx, FetchSearch{Query: "bolt"})
	r.Wait()

	assert.Len(t, out.all(), 2)
	assert.Equal(t, uint64(1), r.Current(CollectionLane))
	assert.Equal(t, uint64(1), r.Current(SearchLane))
}

func TestRunner_ErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{name: "plain error", err: errors.New("connection reset"), wantIs: collector.ErrTransient, wantMsg: collector.GenericErrorMessage},
		{name: "already transient", err: fmt.Errorf("%w: boom", collector.ErrTransient), wantIs: collector.ErrTransient, wantMsg: collector.GenericErrorMessage},
		{name: "unauthorized", err: collector.ErrUnauthorized, wantIs: collector.ErrUnauthorized},
		{name: "service message", err: &collector.ServiceError{Message: "No card selected."}, wantMsg: "No card selected."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			out := &sink{}
			r := NewRunner(svc, svc, out.deliver)

			r.Execute(context.Background(), fetchPage(1, false))
			r.Wait()

			results := out.all()
			require.Len(t, results, 1)
			require.Error(t, results[0].Err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, results[0].Err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, collector.UserMessage(results[0].Err))
			}
		})
	}
}

func TestRunner_CallerCancelIsSilent(t *testing.T) {
	svc := &fakeService{block: map[int]bool{1: true}}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver)

	ctx, cancel := context.WithCancel(context.Background())
	r.Execute(ctx, fetchPage(1, false))
	require.Eventually(t, func() bool { return len(svc.requestedPages()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	r.Wait()

	assert.Empty(t, out.all())
}

func TestRunner_Close(t *testing.T) {
	svc := &fakeService{block: map[int]bool{1: true}}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver, WithDebounce(time.Hour))
	ctx := context.Background()

	r.Execute(ctx, fetchPage(1, false))
	r.Execute(ctx, FetchSearch{Query: "bolt", Debounce: true})
	require.Eventually(t, func() bool { return len(svc.requestedPages()) == 1 }, time.Second, 5*time.Millisecond)

	r.Close()
	r.Wait()

	assert.Empty(t, out.all())
	assert.Empty(t, svc.requestedSearches())
	assert.Zero(t, r.Execute(ctx, fetchPage(2, false)))
}

func TestRunner_SearchBelowThresholdDropsPending(t *testing.T) {
	svc := &fakeService{}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver, WithDebounce(30*time.Millisecond))
	ctx := context.Background()

	s, _ := Reduce(NewState(), CollectionLoaded{TotalPages: 10})
	s, cmd := Reduce(s, SearchTyped{Text: "abc"})
	issued := r.Execute(ctx, cmd)
	require.NotZero(t, issued)

	s, cmd = Reduce(s, SearchTyped{Text: "ab"})
	assert.Zero(t, r.Execute(ctx, cmd))
	r.Wait()

	assert.Equal(t, "ab", s.Filters.Search)
	assert.Empty(t, svc.requestedFilters(), "the debounced \"abc\" request never fires")
	assert.Empty(t, out.all())
	assert.NotEqual(t, issued, r.Current(CollectionLane))

	// Typing on past the threshold searches for the current text.
	s, cmd = Reduce(s, SearchTyped{Text: "abd"})
	seq := r.Execute(ctx, cmd)
	r.Wait()
	assert.Equal(t, []string{"abd"}, svc.requestedFilters())
	require.Len(t, out.all(), 1)
	assert.Equal(t, seq, out.all()[0].Seq)
	assert.Equal(t, s.Filters.Search, out.all()[0].Query.Search)
}

func TestRunner_CancelPendingDropsInFlight(t *testing.T) {
	svc := &fakeService{block: map[int]bool{3: true}}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver)
	ctx := context.Background()

	r.Execute(ctx, fetchPage(3, false))
	require.Eventually(t, func() bool { return len(svc.requestedPages()) == 1 }, time.Second, 5*time.Millisecond)

	r.Execute(ctx, CancelPending{Lane: CollectionLane})
	r.Wait()
	assert.Empty(t, out.all())

	// Other lanes and unknown lanes are left alone.
	r.Execute(ctx, FetchSearch{Query: "shock"})
	r.Execute(ctx, CancelPending{Lane: Lane(9)})
	r.Wait()
	require.Len(t, out.all(), 1)
	assert.Equal(t, SearchLane, out.all()[0].Lane)
}

func TestRunner_ReducerRoundTrip(t *testing.T) {
	svc := &fakeService{}
	out := &sink{}
	r := NewRunner(svc, svc, out.deliver, WithDebounce(10*time.Millisecond))
	ctx := context.Background()

	s := NewState()
	s, cmd := Reduce(s, Reload{})
	r.Execute(ctx, cmd)
	r.Wait()

	res := out.all()[0]
	s, _ = Reduce(s, CollectionLoaded{TotalPages: res.Page.TotalPages})
	s, cmd = Reduce(s, GoLast{})
	r.Execute(ctx, cmd)
	r.Wait()

	assert.Equal(t, 10, s.Page.CurrentPage)
	assert.Equal(t, []int{1, 10}, svc.requestedPages())
}

func TestLane_String(t *testing.T) {
	assert.Equal(t, "collection", CollectionLane.String())
	assert.Equal(t, "search", SearchLane.String())
	assert.Equal(t, "Lane(9)", Lane(9).String())
}
