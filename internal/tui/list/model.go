package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// halfViewportDivisor centers the cursor in the viewport.
const halfViewportDivisor = 2

// RenderFunc renders one item. selected marks the item under the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a scrolling single-selection list. Only the rows inside the
// viewport are rendered, so it stays cheap with thousands of entries.
type Model[T any] struct {
	title      string
	items      []T
	renderFunc RenderFunc[T]

	cursor      int
	visibleFrom int
	visibleTo   int
	height      int
}

// New returns a list of items showing height rows at a time.
func New[T any](title string, items []T, height int, renderFunc RenderFunc[T]) *Model[T] {
	m := &Model[T]{
		title:      title,
		items:      items,
		renderFunc: renderFunc,
		height:     max(height, 1),
	}
	m.updateVisibleRange()
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update moves the cursor on navigation keys and resizes on WindowSizeMsg.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.SetHeight(msg.Height)
	}
	return m, nil
}

//nolint:exhaustive // Only navigation keys move the cursor.
func (m *Model[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}
	switch msg.Type {
	case tea.KeyUp:
		m.SetCursor(m.cursor - 1)
	case tea.KeyDown:
		m.SetCursor(m.cursor + 1)
	case tea.KeyPgUp:
		m.SetCursor(m.cursor - m.height)
	case tea.KeyPgDown:
		m.SetCursor(m.cursor + m.height)
	case tea.KeyHome:
		m.SetCursor(0)
	case tea.KeyEnd:
		m.SetCursor(len(m.items) - 1)
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'j':
				m.SetCursor(m.cursor + 1)
			case 'k':
				m.SetCursor(m.cursor - 1)
			}
		}
	}
}

// updateVisibleRange keeps the cursor inside [visibleFrom, visibleTo).
func (m *Model[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom, m.visibleTo = 0, 0
		return
	}

	from := m.cursor - m.height/halfViewportDivisor
	if from < 0 {
		from = 0
	}
	to := from + m.height
	if to > len(m.items) {
		to = len(m.items)
		from = max(to-m.height, 0)
	}
	m.visibleFrom, m.visibleTo = from, to
}

// View renders the title and the visible rows.
func (m *Model[T]) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.title)
		b.WriteString("\n")
	}
	for i := m.visibleFrom; i < m.visibleTo; i++ {
		b.WriteString(m.renderFunc(m.items[i], i == m.cursor))
		if i < m.visibleTo-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// SetItems replaces the items and moves the cursor to the top.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.cursor = 0
	m.updateVisibleRange()
}

// Items returns the current items.
func (m *Model[T]) Items() []T {
	return m.items
}

// Len returns the number of items.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Cursor returns the index under the cursor.
func (m *Model[T]) Cursor() int {
	return m.cursor
}

// SetCursor moves the cursor, clamped to the item range.
func (m *Model[T]) SetCursor(index int) {
	switch {
	case len(m.items) == 0 || index < 0:
		m.cursor = 0
	case index >= len(m.items):
		m.cursor = len(m.items) - 1
	default:
		m.cursor = index
	}
	m.updateVisibleRange()
}

// SetHeight changes the number of visible rows.
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, 1)
	m.updateVisibleRange()
}

// VisibleRange returns the rendered index range [from, to).
func (m *Model[T]) VisibleRange() (int, int) {
	return m.visibleFrom, m.visibleTo
}

// Selected returns the item under the cursor. ok is false for an empty list.
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}
