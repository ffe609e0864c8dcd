package pagination

import (
	"errors"
	"fmt"
)

// Window radii around the current page. Not configurable.
const (
	WindowBack    = 2
	WindowForward = 3
)

// ErrInvalidArgument is returned by Build for a current page below 1 or a negative page count.
var ErrInvalidArgument = errors.New("invalid argument")

// ControlKind identifies one pagination control.
type ControlKind int

const (
	// FirstPage jumps to page 1.
	FirstPage ControlKind = iota
	// PrevPage moves one page back.
	PrevPage
	// PageNumber jumps to a specific page.
	PageNumber
	// EllipsisBefore opens the menu of pages collapsed before the window.
	EllipsisBefore
	// EllipsisAfter opens the menu of pages collapsed after the window.
	EllipsisAfter
	// NextPage moves one page forward.
	NextPage
	// LastPage jumps to the last page.
	LastPage
)

// String returns the control kind name.
func (k ControlKind) String() string {
	switch k {
	case FirstPage:
		return "first"
	case PrevPage:
		return "prev"
	case PageNumber:
		return "page"
	case EllipsisBefore:
		return "ellipsis-before"
	case EllipsisAfter:
		return "ellipsis-after"
	case NextPage:
		return "next"
	case LastPage:
		return "last"
	default:
		return fmt.Sprintf("ControlKind(%d)", int(k))
	}
}

// Control is a single pagination control descriptor.
// Page and Active are only meaningful for PageNumber.
type Control struct {
	Kind   ControlKind `json:"kind"`
	Page   int         `json:"page,omitempty"`
	Active bool        `json:"active,omitempty"`
}

// Target returns the page a click on c navigates to, resolved against the
// given current page and the authoritative total. Ellipsis controls have no
// target and return 0.
func (c Control) Target(currentPage, totalPages int) int {
	switch c.Kind {
	case FirstPage:
		return 1
	case PrevPage:
		if currentPage > 1 {
			return currentPage - 1
		}
		return 1
	case NextPage:
		if currentPage < totalPages {
			return currentPage + 1
		}
		return currentPage
	case LastPage:
		return totalPages
	case PageNumber:
		return c.Page
	default:
		return 0
	}
}

// Window is the ordered control sequence for one render, plus the page
// numbers behind each ellipsis.
type Window struct {
	Controls     []Control `json:"controls"`
	ExtrasBefore []int     `json:"extras_before"`
	ExtrasAfter  []int     `json:"extras_after"`
}

// Build produces the pagination window for currentPage out of totalPages.
//
// The window shows up to WindowBack pages before and WindowForward-1 pages
// after the current one, clipped to [1, totalPages]. Pages outside it are
// reachable through the ellipsis menus listed in ExtrasBefore/ExtrasAfter.
func Build(currentPage, totalPages int) (Window, error) {
	if currentPage < 1 {
		return Window{}, fmt.Errorf("%w: current page must be >= 1, got %d", ErrInvalidArgument, currentPage)
	}
	if totalPages < 0 {
		return Window{}, fmt.Errorf("%w: total pages must be >= 0, got %d", ErrInvalidArgument, totalPages)
	}

	w := Window{Controls: []Control{}, ExtrasBefore: []int{}, ExtrasAfter: []int{}}
	if totalPages == 0 {
		return w, nil
	}

	if currentPage > 1 {
		w.Controls = append(w.Controls, Control{Kind: FirstPage}, Control{Kind: PrevPage})
	}

	start := currentPage - WindowBack
	end := currentPage + WindowForward

	if start > 1 {
		w.Controls = append(w.Controls, Control{Kind: EllipsisBefore})
	}

	for i := start; i < end; i++ {
		if i >= 1 && i <= totalPages {
			w.Controls = append(w.Controls, Control{Kind: PageNumber, Page: i, Active: i == currentPage})
		}
	}

	if end < totalPages {
		w.Controls = append(w.Controls, Control{Kind: EllipsisAfter})
	}

	if currentPage < totalPages {
		w.Controls = append(w.Controls, Control{Kind: NextPage}, Control{Kind: LastPage})
	}

	for i := 1; i <= totalPages; i++ {
		if i < start {
			w.ExtrasBefore = append(w.ExtrasBefore, i)
		}
		if i >= end {
			w.ExtrasAfter = append(w.ExtrasAfter, i)
		}
	}

	return w, nil
}

// Pages returns the page numbers shown in the window, in order.
func (w Window) Pages() []int {
	pages := make([]int, 0, WindowBack+WindowForward)
	for _, c := range w.Controls {
		if c.Kind == PageNumber {
			pages = append(pages, c.Page)
		}
	}
	return pages
}

// Has reports whether the window contains a control of the given kind.
func (w Window) Has(kind ControlKind) bool {
	for _, c := range w.Controls {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// Active returns the active page, or 0 when no page is active.
func (w Window) Active() int {
	for _, c := range w.Controls {
		if c.Kind == PageNumber && c.Active {
			return c.Page
		}
	}
	return 0
}
