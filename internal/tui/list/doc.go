// Package listview provides a scrolling selection list for Bubble Tea.
//
// The collection browser uses it for the set and rarity filter menus, the
// page menus behind the pagination ellipses, and the add-card search
// results. Only rows inside the viewport are rendered.
package listview
