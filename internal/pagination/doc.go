// Package pagination builds the page navigation shown under the collection list.
//
// This package contains:
//   - Build: the window of page controls around the current page, with the
//     pages collapsed behind the ellipsis menus
//   - SortField/ParseSort: the sortable collection columns and sort expressions
//   - PageCount/Meta: page math shared by the CLI output and the TUI footer
//
// Nothing here performs I/O. Callers pass the authoritative page count from the
// latest collection response on every call.
package pagination
