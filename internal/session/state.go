// Package session holds the collection browser state and the rules that
// move it. Reduce is a pure function from (State, Action) to a new State
// plus the Command to run; Runner executes commands against the service.
package session

import (
	"time"

	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/pagination"
)

// Search typing thresholds.
const (
	MinSearchLength = 3
	DebounceWindow  = 250 * time.Millisecond
)

// PageState is the current page and the last authoritative page count.
type PageState struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// Sort is the active sort column and direction.
type Sort struct {
	Field pagination.SortField `json:"field"`
	Desc  bool                 `json:"desc"`
}

// Filters narrow the collection.
type Filters struct {
	Search string `json:"search,omitempty"`
	Set    string `json:"set,omitempty"`
	Rarity string `json:"rarity,omitempty"`
}

// FilterKey names one filter.
type FilterKey string

// Filter keys.
const (
	FilterSearch FilterKey = "search"
	FilterSet    FilterKey = "set"
	FilterRarity FilterKey = "rarity"
)

// State is the whole browser state. It is a value; Reduce never mutates
// its input.
type State struct {
	Page     PageState `json:"page"`
	Sort     Sort      `json:"sort"`
	Filters  Filters   `json:"filters"`
	AddQuery string    `json:"add_query,omitempty"`
}

// NewState returns the initial state: page 1 of an unknown total, sorted by
// name ascending.
func NewState() State {
	return State{
		Page: PageState{CurrentPage: pagination.DefaultPage},
		Sort: Sort{Field: pagination.DefaultSortField},
	}
}

// Query returns the collection query for the state.
func (s State) Query() collector.Query {
	return collector.Query{
		Page:   s.Page.CurrentPage,
		Sort:   s.Sort.Field,
		Desc:   s.Sort.Desc,
		Search: s.Filters.Search,
		Set:    s.Filters.Set,
		Rarity: s.Filters.Rarity,
	}
}

// Window builds the pagination controls for the state.
func (s State) Window() (pagination.Window, error) {
	return pagination.Build(s.Page.CurrentPage, s.Page.TotalPages)
}

// Meta returns navigation metadata for plain output.
func (s State) Meta() pagination.Meta {
	return pagination.NewMeta(s.Page.CurrentPage, s.Page.TotalPages)
}

// ActiveFilters lists the filters that are set, in a fixed order.
func (s State) ActiveFilters() []FilterKey {
	var keys []FilterKey
	if s.Filters.Search != "" {
		keys = append(keys, FilterSearch)
	}
	if s.Filters.Set != "" {
		keys = append(keys, FilterSet)
	}
	if s.Filters.Rarity != "" {
		keys = append(keys, FilterRarity)
	}
	return keys
}
