package session

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cardcollector/internal/pagination"
)

func loaded(current, total int) State {
	s := NewState()
	s.Page = PageState{CurrentPage: current, TotalPages: total}
	return s
}

func fetchOf(t *testing.T, cmd Command) FetchCollection {
	t.Helper()
	fc, ok := cmd.(FetchCollection)
	require.True(t, ok, "expected FetchCollection, got %T", cmd)
	return fc
}

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, 1, s.Page.CurrentPage)
	assert.Zero(t, s.Page.TotalPages)
	assert.Equal(t, pagination.SortByName, s.Sort.Field)
	assert.False(t, s.Sort.Desc)

	w, err := s.Window()
	require.NoError(t, err)
	assert.Empty(t, w.Controls)
}

func TestReduce_Navigation(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		action   Action
		wantPage int
		wantNoOp bool
	}{
		{name: "first", state: loaded(5, 10), action: GoFirst{}, wantPage: 1},
		{name: "prev", state: loaded(5, 10), action: GoPrev{}, wantPage: 4},
		{name: "next", state: loaded(5, 10), action: GoNext{}, wantPage: 6},
		{name: "last", state: loaded(5, 10), action: GoLast{}, wantPage: 10},
		{name: "explicit page", state: loaded(5, 10), action: GoPage{Page: 8}, wantPage: 8},
		{name: "first on first", state: loaded(1, 10), action: GoFirst{}, wantPage: 1, wantNoOp: true},
		{name: "prev on first", state: loaded(1, 10), action: GoPrev{}, wantPage: 1, wantNoOp: true},
		{name: "next on last", state: loaded(10, 10), action: GoNext{}, wantPage: 10, wantNoOp: true},
		{name: "page beyond total", state: loaded(5, 10), action: GoPage{Page: 11}, wantPage: 5, wantNoOp: true},
		{name: "page zero", state: loaded(5, 10), action: GoPage{Page: 0}, wantPage: 5, wantNoOp: true},
		{name: "last with unknown total", state: loaded(1, 0), action: GoLast{}, wantPage: 1, wantNoOp: true},
		{name: "next with unknown total", state: loaded(1, 0), action: GoNext{}, wantPage: 1, wantNoOp: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, cmd := Reduce(tt.state, tt.action)
			assert.Equal(t, tt.wantPage, next.Page.CurrentPage)
			assert.Equal(t, tt.state.Page.TotalPages, next.Page.TotalPages)
			if tt.wantNoOp {
				assert.Equal(t, NoOp{}, cmd)
				return
			}
			fc := fetchOf(t, cmd)
			assert.Equal(t, tt.wantPage, fc.Query.Page)
			assert.False(t, fc.Debounce)
		})
	}
}

func TestReduce_ControlClicked(t *testing.T) {
	s := loaded(5, 10)
	w, err := s.Window()
	require.NoError(t, err)

	for _, c := range w.Controls {
		t.Run(c.Kind.String()+"-"+strconv.Itoa(c.Page), func(t *testing.T) {
			next, cmd := Reduce(s, ControlClicked{Control: c})
			target := c.Target(s.Page.CurrentPage, s.Page.TotalPages)
			switch {
			case c.Kind == pagination.EllipsisBefore, c.Kind == pagination.EllipsisAfter:
				assert.Equal(t, NoOp{}, cmd, "ellipses open a menu, they do not navigate")
			case c.Active:
				assert.Equal(t, NoOp{}, cmd, "the active page is already shown")
			default:
				assert.Equal(t, target, next.Page.CurrentPage)
				assert.Equal(t, target, fetchOf(t, cmd).Query.Page)
			}
		})
	}
}

func TestReduce_ControlClickedUsesStateTotal(t *testing.T) {
	s := loaded(2, 10)
	w, err := s.Window()
	require.NoError(t, err)
	last := w.Controls[len(w.Controls)-1]
	require.Equal(t, pagination.LastPage, last.Kind)

	// The window was rendered for 10 pages, the next response says 4.
	s, _ = Reduce(s, CollectionLoaded{TotalPages: 4})
	s, cmd := Reduce(s, ControlClicked{Control: last})
	assert.Equal(t, 4, s.Page.CurrentPage)
	assert.Equal(t, 4, fetchOf(t, cmd).Query.Page)

	_, cmd = Reduce(s, ControlClicked{Control: pagination.Control{Kind: pagination.PageNumber, Page: 7}})
	assert.Equal(t, NoOp{}, cmd, "pages beyond the latest total are ignored")
}

func TestReduce_LastUsesLatestTotal(t *testing.T) {
	s := loaded(2, 10)
	// The collection shrank to 4 pages on the last fetch.
	s, _ = Reduce(s, CollectionLoaded{TotalPages: 4})
	s, cmd := Reduce(s, GoLast{})

	assert.Equal(t, 4, s.Page.CurrentPage)
	assert.Equal(t, 4, fetchOf(t, cmd).Query.Page)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := loaded(3, 9)
	s.Filters.Search = "bolt"
	before := s

	_, _ = Reduce(s, GoNext{})
	_, _ = Reduce(s, SearchTyped{Text: "shock"})
	_, _ = Reduce(s, FiltersApplied{Set: "12", Rarity: "R"})

	assert.Equal(t, before, s)
}

func TestReduce_SortBy(t *testing.T) {
	s := loaded(4, 9)

	s, cmd := Reduce(s, SortBy{Field: pagination.SortByPrice})
	assert.Equal(t, Sort{Field: pagination.SortByPrice}, s.Sort)
	assert.Equal(t, 1, s.Page.CurrentPage)
	fc := fetchOf(t, cmd)
	assert.Equal(t, pagination.SortByPrice, fc.Query.Sort)
	assert.False(t, fc.Query.Desc)

	s, cmd = Reduce(s, SortBy{Field: pagination.SortByPrice})
	assert.True(t, s.Sort.Desc)
	assert.True(t, fetchOf(t, cmd).Query.Desc)

	s, _ = Reduce(s, SortBy{Field: pagination.SortByQuantity})
	assert.Equal(t, Sort{Field: pagination.SortByQuantity}, s.Sort, "new column resets to ascending")

	_, cmd = Reduce(s, SortBy{Field: "colour"})
	assert.Equal(t, NoOp{}, cmd)
}

func TestReduce_SearchTyped(t *testing.T) {
	tests := []struct {
		text      string
		wantFetch bool
	}{
		{text: "", wantFetch: true},
		{text: "b", wantFetch: false},
		{text: "bo", wantFetch: false},
		{text: "bol", wantFetch: true},
		{text: "  bo ", wantFetch: false},
		{text: "Æth", wantFetch: true},
		{text: "日本", wantFetch: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s, cmd := Reduce(loaded(6, 9), SearchTyped{Text: tt.text})
			assert.Equal(t, tt.text, s.Filters.Search)
			assert.Equal(t, 1, s.Page.CurrentPage, "typing always resets the page")
			if !tt.wantFetch {
				assert.Equal(t, CancelPending{Lane: CollectionLane}, cmd,
					"a search that no longer qualifies drops the pending one")
				return
			}
			fc := fetchOf(t, cmd)
			assert.True(t, fc.Debounce)
			assert.Equal(t, 1, fc.Query.Page)
			assert.Equal(t, tt.text, fc.Query.Search)
		})
	}
}

func TestReducer_CustomMinLength(t *testing.T) {
	r := Reducer{MinSearchLength: 1}
	_, cmd := r.Reduce(NewState(), SearchTyped{Text: "x"})
	assert.IsType(t, FetchCollection{}, cmd)
}

func TestReduce_Filters(t *testing.T) {
	s := loaded(3, 9)

	s, cmd := Reduce(s, FiltersApplied{Set: "42", Rarity: "M"})
	assert.Equal(t, Filters{Set: "42", Rarity: "M"}, s.Filters)
	assert.Equal(t, 1, s.Page.CurrentPage)
	fc := fetchOf(t, cmd)
	assert.Equal(t, "42", fc.Query.Set)
	assert.Equal(t, "M", fc.Query.Rarity)
	assert.Equal(t, []FilterKey{FilterSet, FilterRarity}, s.ActiveFilters())

	s.Page.CurrentPage = 2
	s, cmd = Reduce(s, FilterRemoved{Key: FilterRarity})
	assert.Equal(t, Filters{Set: "42"}, s.Filters)
	assert.Equal(t, 1, s.Page.CurrentPage)
	assert.Empty(t, fetchOf(t, cmd).Query.Rarity)

	_, cmd = Reduce(s, FilterRemoved{Key: "colour"})
	assert.Equal(t, NoOp{}, cmd)
}

func TestReduce_Reload(t *testing.T) {
	s := loaded(3, 9)
	next, cmd := Reduce(s, Reload{})
	assert.Equal(t, s, next)
	assert.Equal(t, 3, fetchOf(t, cmd).Query.Page)
}

func TestReduce_AddSearch(t *testing.T) {
	s, cmd := Reduce(NewState(), AddSearchTyped{Query: "sh"})
	assert.Equal(t, "sh", s.AddQuery)
	assert.Equal(t, CancelPending{Lane: SearchLane}, cmd)

	s, cmd = Reduce(s, AddSearchTyped{Query: "shock "})
	fs, ok := cmd.(FetchSearch)
	require.True(t, ok)
	assert.Equal(t, "shock", fs.Query)
	assert.True(t, fs.Debounce)

	s.Page.CurrentPage = 4
	s.Page.TotalPages = 9
	s, cmd = Reduce(s, CardAdded{})
	assert.Equal(t, "shock ", s.Filters.Search)
	assert.Equal(t, 1, s.Page.CurrentPage)
	fc := fetchOf(t, cmd)
	assert.False(t, fc.Debounce)
	assert.Equal(t, "shock ", fc.Query.Search)
}

func TestReduce_CollectionLoaded(t *testing.T) {
	s, cmd := Reduce(loaded(2, 0), CollectionLoaded{TotalPages: 7})
	assert.Equal(t, PageState{CurrentPage: 2, TotalPages: 7}, s.Page)
	assert.Equal(t, NoOp{}, cmd)

	s, cmd = Reduce(loaded(5, 5), CollectionLoaded{TotalPages: 3})
	assert.Equal(t, PageState{CurrentPage: 3, TotalPages: 3}, s.Page)
	assert.Equal(t, 3, fetchOf(t, cmd).Query.Page)

	s, cmd = Reduce(loaded(2, 5), CollectionLoaded{TotalPages: 0})
	assert.Equal(t, PageState{CurrentPage: 2, TotalPages: 0}, s.Page)
	assert.Equal(t, NoOp{}, cmd)

	_, cmd = Reduce(loaded(1, 1), CollectionLoaded{TotalPages: -1})
	assert.Equal(t, NoOp{}, cmd)
}

func TestState_WindowAndMeta(t *testing.T) {
	s := loaded(5, 10)
	w, err := s.Window()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, w.Pages())

	m := s.Meta()
	assert.True(t, m.HasPrevious)
	assert.True(t, m.HasNext)
}
