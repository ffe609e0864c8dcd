package session

import (
	"strings"
	"unicode/utf8"

	"github.com/rshade/cardcollector/internal/pagination"
)

// Reducer applies actions. The zero value uses MinSearchLength.
type Reducer struct {
	// MinSearchLength is the shortest non-empty search that triggers a fetch.
	MinSearchLength int
}

// Reduce applies a with the default thresholds.
func Reduce(s State, a Action) (State, Command) {
	return Reducer{}.Reduce(s, a)
}

// Reduce returns the next state and the command to run. Navigation that
// would not change the page yields NoOp.
func (r Reducer) Reduce(s State, a Action) (State, Command) {
	switch a := a.(type) {
	case GoFirst:
		return s.click(pagination.Control{Kind: pagination.FirstPage})
	case GoPrev:
		return s.click(pagination.Control{Kind: pagination.PrevPage})
	case GoNext:
		return s.click(pagination.Control{Kind: pagination.NextPage})
	case GoLast:
		return s.click(pagination.Control{Kind: pagination.LastPage})
	case GoPage:
		return s.click(pagination.Control{Kind: pagination.PageNumber, Page: a.Page})
	case ControlClicked:
		return s.click(a.Control)

	case SortBy:
		if !a.Field.IsValid() {
			return s, NoOp{}
		}
		if s.Sort.Field == a.Field {
			s.Sort.Desc = !s.Sort.Desc
		} else {
			s.Sort = Sort{Field: a.Field}
		}
		return s.firstPage()

	case SearchTyped:
		s.Filters.Search = a.Text
		s.Page.CurrentPage = 1
		if !r.searchable(a.Text) {
			return s, CancelPending{Lane: CollectionLane}
		}
		return s, FetchCollection{Query: s.Query(), Debounce: true}

	case FiltersApplied:
		s.Filters.Set = a.Set
		s.Filters.Rarity = a.Rarity
		return s.firstPage()

	case FilterRemoved:
		switch a.Key {
		case FilterSearch:
			s.Filters.Search = ""
		case FilterSet:
			s.Filters.Set = ""
		case FilterRarity:
			s.Filters.Rarity = ""
		default:
			return s, NoOp{}
		}
		return s.firstPage()

	case Reload:
		return s, FetchCollection{Query: s.Query()}

	case AddSearchTyped:
		s.AddQuery = a.Query
		if !r.searchable(a.Query) {
			return s, CancelPending{Lane: SearchLane}
		}
		return s, FetchSearch{Query: strings.TrimSpace(a.Query), Debounce: true}

	case CardAdded:
		s.Filters.Search = s.AddQuery
		return s.firstPage()

	case CollectionLoaded:
		if a.TotalPages < 0 {
			return s, NoOp{}
		}
		s.Page.TotalPages = a.TotalPages
		// The collection shrank under us: step back to the new last page.
		if a.TotalPages > 0 && s.Page.CurrentPage > a.TotalPages {
			s.Page.CurrentPage = a.TotalPages
			return s, FetchCollection{Query: s.Query()}
		}
		return s, NoOp{}
	}
	return s, NoOp{}
}

// click resolves c against the current page state. Ellipsis controls
// have no target and yield NoOp.
func (s State) click(c pagination.Control) (State, Command) {
	return s.goTo(c.Target(s.Page.CurrentPage, s.Page.TotalPages))
}

func (s State) goTo(page int) (State, Command) {
	if page < 1 || page == s.Page.CurrentPage {
		return s, NoOp{}
	}
	if page > max(s.Page.TotalPages, 1) {
		return s, NoOp{}
	}
	s.Page.CurrentPage = page
	return s, FetchCollection{Query: s.Query()}
}

func (s State) firstPage() (State, Command) {
	s.Page.CurrentPage = 1
	return s, FetchCollection{Query: s.Query()}
}

// searchable reports whether text is empty or long enough to search for.
func (r Reducer) searchable(text string) bool {
	threshold := r.MinSearchLength
	if threshold <= 0 {
		threshold = MinSearchLength
	}
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return n == 0 || n >= threshold
}
