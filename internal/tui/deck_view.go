package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/cardcollector/internal/collector"
)

const deckNameWidth = 36

// RenderDeck renders a deck list grouped by card type. The sideboard section
// is omitted when it has no cards. width is the box width.
func RenderDeck(list collector.DeckList, formatName string, width int) string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(strings.ToUpper(list.Deck.Name)))
	if formatName != "" {
		content.WriteString(LabelStyle.Render("  " + formatName))
	}
	if list.Deck.Deleted {
		content.WriteString(WarningStyle.Render("  (deleted)"))
	}
	content.WriteString("\n")
	if list.Deck.Notes != "" {
		content.WriteString(InfoStyle.Render(list.Deck.Notes))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(renderSection("Main", list.Main))

	if len(collector.Cards(list.Sideboard)) > 0 {
		content.WriteString("\n\n")
		content.WriteString(renderSection("Sideboard", list.Sideboard))
	}

	return BoxStyle.Width(width - borderPadding).Render(content.String())
}

func renderSection(title string, rows []collector.DeckRow) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%s (%d)", title, collector.Total(rows))))

	grouped := collector.GroupByType(rows)
	if len(grouped) == 0 {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("  No cards."))
		return b.String()
	}

	for _, r := range grouped {
		b.WriteString("\n")
		if r.IsType {
			b.WriteString(LabelStyle.Render(fmt.Sprintf("%s (%d)", r.Label, r.Count)))
			continue
		}
		b.WriteString(renderDeckCard(r))
	}
	return b.String()
}

func renderDeckCard(r collector.DeckRow) string {
	line := fmt.Sprintf("  %2d  %-*s %s", r.Quantity, deckNameWidth, truncate(r.Name, deckNameWidth),
		strings.Join(r.ManaCost, ""))
	line = strings.TrimRight(line, " ")
	if r.InsufficientQuantity && !r.BasicLand {
		have := 0
		if r.HasQuantity != nil {
			have = *r.HasQuantity
		}
		line += WarningStyle.Render(fmt.Sprintf("  (own %d)", have))
	}
	return line
}

// RenderDeckSummaries renders the deck list as one line per deck.
func RenderDeckSummaries(decks []collector.DeckSummary) string {
	if len(decks) == 0 {
		return InfoStyle.Render("No decks.")
	}
	var b strings.Builder
	for i, d := range decks {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%5d  %s", d.ID, ValueStyle.Render(d.Name))
		if d.FormatName != "" {
			b.WriteString(LabelStyle.Render("  " + d.FormatName))
		}
	}
	return b.String()
}
