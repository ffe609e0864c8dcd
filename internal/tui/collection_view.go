package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/pagination"
	"github.com/rshade/cardcollector/internal/session"
)

const (
	helpList   = "←/→ page  p go to page  [/] more pages  1-6 sort  / search  s set  r rarity  x clear filter  a add  e edit  enter detail  q quit"
	helpAdd    = "type to search  ↑/↓ select  enter add  esc back"
	helpEdit   = "tab next field  space toggle foil  enter save  esc cancel"
	helpPicker = "↑/↓ select  enter apply  esc cancel"
)

// View renders the current view (Bubble Tea interface).
func (m CollectionModel) View() string {
	switch m.view {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return fmt.Sprintf("\n %s Loading collection...\n", m.loading.View())
	case ViewStateAdd:
		return m.frame(m.renderAdd(), helpAdd)
	case ViewStateEdit:
		return m.frame(m.renderEdit(), helpEdit)
	case ViewStatePicker:
		return m.frame(m.renderPicker(), helpPicker)
	case ViewStateDetail:
		return m.frame(BoxStyle.Render(m.detail.View()), "")
	case ViewStateList, ViewStateSearch:
		return m.frame(m.renderList(), helpList)
	default:
		return ""
	}
}

// frame wraps body with the title bar, the toast and a help line.
func (m CollectionModel) frame(body, help string) string {
	sections := []string{m.renderTitle(), body}
	if t := m.renderToast(); t != "" {
		sections = append(sections, t)
	}
	if help != "" {
		sections = append(sections, InfoStyle.Render(help))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m CollectionModel) renderTitle() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("CARD COLLECTION"))
	b.WriteString("  ")
	b.WriteString(LabelStyle.Render("Cards: "))
	b.WriteString(ValueStyle.Render(formatCount(m.totalQuantity)))
	if m.pageValue != "" {
		b.WriteString(LabelStyle.Render("  Page value: "))
		b.WriteString(ValueStyle.Render(m.pageValue))
	}
	return b.String()
}

func (m CollectionModel) renderList() string {
	sections := []string{}

	if m.view == ViewStateSearch || m.searchInput.Value() != "" {
		sections = append(sections, m.searchInput.View())
	}
	if chips := m.renderFilters(); chips != "" {
		sections = append(sections, chips)
	}

	if len(m.cards) == 0 {
		sections = append(sections, InfoStyle.Render("No cards found."))
	} else {
		sections = append(sections, m.table.View())
	}

	if w, err := m.state.Window(); err == nil {
		if bar := renderPagination(w); bar != "" {
			sections = append(sections, bar+"  "+LabelStyle.Render(pageSummary(m.state)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderFilters renders one chip per active filter.
func (m CollectionModel) renderFilters() string {
	var chips []string
	for _, key := range m.state.ActiveFilters() {
		var label string
		switch key {
		case session.FilterSearch:
			label = "Search: " + m.state.Filters.Search
		case session.FilterSet:
			label = "Set: " + m.setName(m.state.Filters.Set)
		case session.FilterRarity:
			label = "Rarity: " + collector.RarityName(m.state.Filters.Rarity)
		}
		chips = append(chips, ChipStyle.Render(label))
	}
	return strings.Join(chips, " ")
}

func (m CollectionModel) setName(id string) string {
	for _, s := range m.sets {
		if strconv.Itoa(s.ID) == id {
			return s.Name
		}
	}
	return id
}

// renderPagination renders the window controls on one line. Ellipses show
// the key that opens their page menu.
func renderPagination(w pagination.Window) string {
	parts := make([]string, 0, len(w.Controls))
	for _, c := range w.Controls {
		switch c.Kind {
		case pagination.FirstPage:
			parts = append(parts, PageStyle.Render("«"))
		case pagination.PrevPage:
			parts = append(parts, PageStyle.Render("‹"))
		case pagination.EllipsisBefore:
			parts = append(parts, PageStyle.Render("[…"))
		case pagination.EllipsisAfter:
			parts = append(parts, PageStyle.Render("…]"))
		case pagination.NextPage:
			parts = append(parts, PageStyle.Render("›"))
		case pagination.LastPage:
			parts = append(parts, PageStyle.Render("»"))
		case pagination.PageNumber:
			if c.Active {
				parts = append(parts, ActivePageStyle.Render(strconv.Itoa(c.Page)))
			} else {
				parts = append(parts, PageStyle.Render(strconv.Itoa(c.Page)))
			}
		}
	}
	return strings.Join(parts, "")
}

func pageSummary(s session.State) string {
	return fmt.Sprintf("Page %s of %s", formatCount(s.Page.CurrentPage), formatCount(s.Page.TotalPages))
}

func (m CollectionModel) renderAdd() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Add a card"))
	b.WriteString("\n")
	b.WriteString(m.addInput.View())
	b.WriteString("\n\n")
	switch {
	case m.adding:
		b.WriteString(InfoStyle.Render("Adding..."))
	case m.results.Len() > 0:
		b.WriteString(m.results.View())
	case len([]rune(strings.TrimSpace(m.addInput.Value()))) > 0:
		b.WriteString(InfoStyle.Render("No matching cards."))
	}
	return BoxStyle.Render(b.String())
}

func (m CollectionModel) renderEdit() string {
	f := m.edit
	if f == nil {
		return ""
	}
	field := func(i int, label, value string) string {
		l := LabelStyle.Render(fmt.Sprintf("%-22s", label))
		if f.focus == i {
			l = SelectedStyle.Render(fmt.Sprintf("%-22s", label))
		}
		return l + value
	}
	foil := "[ ]"
	if f.foil {
		foil = "[x]"
	}

	lines := []string{
		HeaderStyle.Render("Edit " + f.card.Name),
		LabelStyle.Render(f.card.SetName),
		"",
		field(editQuantity, "Quantity", f.quantity.View()),
		field(editFoil, "Foil", foil),
		field(editTCGPlayer, "TCGPlayer product ID", f.tcg.View()),
	}
	if f.saving {
		lines = append(lines, "", InfoStyle.Render("Saving..."))
	}
	if qty := strings.TrimSpace(f.quantity.Value()); qty == "0" {
		lines = append(lines, "", WarningStyle.Render("Saving with quantity 0 removes the card from your collection."))
	}
	return BoxStyle.Render(strings.Join(lines, "\n"))
}

func (m CollectionModel) renderPicker() string {
	if m.picker == nil {
		return ""
	}
	body := m.picker.View()
	if m.pickerKind == pickSet && !m.setsLoaded {
		body += "\n" + InfoStyle.Render("Loading sets...")
	}
	return BoxStyle.Render(body)
}

func (m CollectionModel) renderToast() string {
	if m.toast == nil {
		return ""
	}
	switch m.toast.kind {
	case toastError:
		return ErrorStyle.Render(m.toast.text)
	case toastSuccess:
		return SuccessStyle.Render(m.toast.text)
	default:
		return m.toast.text
	}
}
