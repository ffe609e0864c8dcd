package session

import (
	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/pagination"
)

// Action is an input to Reduce.
type Action interface {
	isAction()
}

type (
	// GoFirst navigates to page 1.
	GoFirst struct{}
	// GoPrev navigates one page back.
	GoPrev struct{}
	// GoNext navigates one page forward.
	GoNext struct{}
	// GoLast navigates to the last page of the latest known total.
	GoLast struct{}
	// GoPage navigates to an explicit page.
	GoPage struct{ Page int }
	// ControlClicked activates a control of the rendered pagination window.
	ControlClicked struct{ Control pagination.Control }
	// SortBy sorts by a column. Repeating the current column flips direction.
	SortBy struct{ Field pagination.SortField }
	// SearchTyped is the collection search box changing.
	SearchTyped struct{ Text string }
	// FiltersApplied sets the set and rarity filters together.
	FiltersApplied struct{ Set, Rarity string }
	// FilterRemoved clears one filter.
	FilterRemoved struct{ Key FilterKey }
	// Reload refetches the current page after an add, edit or upload.
	Reload struct{}
	// AddSearchTyped is the add-card search box changing.
	AddSearchTyped struct{ Query string }
	// CardAdded follows a successful add: the collection search takes the
	// add-search text and the collection reloads from page 1.
	CardAdded struct{}
	// CollectionLoaded records the authoritative page count of a response.
	CollectionLoaded struct{ TotalPages int }
)

func (GoFirst) isAction()          {}
func (GoPrev) isAction()           {}
func (GoNext) isAction()           {}
func (GoLast) isAction()           {}
func (GoPage) isAction()           {}
func (ControlClicked) isAction()   {}
func (SortBy) isAction()           {}
func (SearchTyped) isAction()      {}
func (FiltersApplied) isAction()   {}
func (FilterRemoved) isAction()    {}
func (Reload) isAction()           {}
func (AddSearchTyped) isAction()   {}
func (CardAdded) isAction()        {}
func (CollectionLoaded) isAction() {}

// Command is an effect requested by Reduce.
type Command interface {
	isCommand()
}

// FetchCollection loads a collection page.
type FetchCollection struct {
	Query    collector.Query
	Debounce bool
}

// FetchSearch runs the add-card search.
type FetchSearch struct {
	Query    string
	Debounce bool
}

// CancelPending drops whatever is pending or in flight on Lane: the input
// that asked for it no longer qualifies for a request.
type CancelPending struct {
	Lane Lane
}

// NoOp requests nothing.
type NoOp struct{}

func (FetchCollection) isCommand() {}
func (FetchSearch) isCommand()     {}
func (CancelPending) isCommand()   {}
func (NoOp) isCommand()            {}
