package detail

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/cardcollector/internal/collector"
)

// historyRows is how many of the most recent price points are shown.
const historyRows = 10

// Loader fetches the data behind the detail view.
type Loader interface {
	Card(ctx context.Context, userCardID int) (collector.CardDetail, error)
	PriceHistory(ctx context.Context, userCardID int) (collector.PriceHistory, error)
	RefreshPrice(ctx context.Context, userCardID int) error
}

// State is the load state of the view.
type State int

const (
	// StateLoading waits for detail and price history.
	StateLoading State = iota
	// StateReady has both loaded.
	StateReady
	// StateError failed to load; 'r' retries.
	StateError
)

// LoadedMsg carries the result of a load.
type LoadedMsg struct {
	UserCardID int
	Detail     collector.CardDetail
	History    collector.PriceHistory
	Err        error
}

// RefreshedMsg reports a price refresh.
type RefreshedMsg struct {
	UserCardID int
	Err        error
}

//nolint:gochecknoglobals // Immutable styles.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(16)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// Model shows one owned card with its price history.
type Model struct {
	ctx    context.Context
	loader Loader
	card   collector.Card

	state      State
	detail     collector.CardDetail
	history    collector.PriceHistory
	err        error
	refreshing bool
}

// New returns a view for card. Nothing is fetched until Init runs.
func New(ctx context.Context, loader Loader, card collector.Card) Model {
	return Model{ctx: ctx, loader: loader, card: card, state: StateLoading}
}

// Init starts loading.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// State returns the load state.
func (m Model) State() State {
	return m.state
}

// Detail returns the loaded card detail.
func (m Model) Detail() collector.CardDetail {
	return m.detail
}

// Err returns the last load or refresh error.
func (m Model) Err() error {
	return m.err
}

// UserCardID returns the card shown.
func (m Model) UserCardID() int {
	return m.card.UserCardID
}

func (m Model) load() tea.Cmd {
	ctx, loader, id := m.ctx, m.loader, m.card.UserCardID
	return func() tea.Msg {
		msg := LoadedMsg{UserCardID: id}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			d, err := loader.Card(gctx, id)
			msg.Detail = d
			return err
		})
		g.Go(func() error {
			h, err := loader.PriceHistory(gctx, id)
			msg.History = h
			return err
		})
		msg.Err = g.Wait()
		return msg
	}
}

func (m Model) refresh() tea.Cmd {
	ctx, loader, id := m.ctx, m.loader, m.card.UserCardID
	return func() tea.Msg {
		return RefreshedMsg{UserCardID: id, Err: loader.RefreshPrice(ctx, id)}
	}
}

// Update handles load results and the 'r' (retry) and 'p' (refresh price) keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.UserCardID != m.card.UserCardID {
			return m, nil
		}
		m.refreshing = false
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.state = StateReady
		m.err = nil
		m.detail = msg.Detail
		m.history = msg.History
		return m, nil

	case RefreshedMsg:
		if msg.UserCardID != m.card.UserCardID {
			return m, nil
		}
		if msg.Err != nil {
			m.refreshing = false
			m.err = msg.Err
			return m, nil
		}
		return m, m.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if m.state == StateError {
				m.state = StateLoading
				m.err = nil
				return m, m.load()
			}
		case "p":
			if m.state == StateReady && !m.refreshing {
				m.refreshing = true
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

// View renders the detail panel.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.card.Name))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(hintStyle.Render("Loading card details..."))
		return b.String()
	case StateError:
		b.WriteString(errStyle.Render(collector.UserMessage(m.err)))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("r: retry  esc: back"))
		return b.String()
	case StateReady:
	}

	d := m.detail
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Set", d.SetName)
	row("Rarity", collector.RarityName(d.Rarity))
	row("Quantity", strconv.Itoa(d.Quantity))
	row("Foil", yesNo(d.Foil))
	row("Price", priceString(d.Price, d.CurrencyCode))
	if d.PriceLastUpdated != "" {
		row("Price updated", d.PriceLastUpdated)
	}
	if d.TCGPlayerProductID != nil {
		row("TCGPlayer ID", strconv.Itoa(*d.TCGPlayerProductID))
	}
	row("Printings owned", strconv.Itoa(d.PrintingsOwned))

	if len(d.Decks) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Decks"))
		b.WriteString("\n")
		for _, deck := range d.Decks {
			fmt.Fprintf(&b, "  %dx %s (%s)\n", deck.Quantity, deck.Name, deck.FormatName)
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHistory(d.CurrencyCode))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(collector.UserMessage(m.err)))
	}
	b.WriteString("\n")
	if m.refreshing {
		b.WriteString(hintStyle.Render("Refreshing price..."))
	} else {
		b.WriteString(hintStyle.Render("p: refresh price  esc: back"))
	}
	return b.String()
}

func (m Model) renderHistory(currency string) string {
	points := m.history.Points()
	if len(points) == 0 {
		return hintStyle.Render("No price history.")
	}
	if len(points) > historyRows {
		points = points[len(points)-historyRows:]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Price history"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %-12s %10s %10s\n", "Date", collector.SeriesPrice, collector.SeriesFoilPrice)
	for _, p := range points {
		fmt.Fprintf(&b, "  %-12s %10s %10s\n", p.Date,
			priceString(p.Prices[collector.SeriesPrice], currency),
			priceString(p.Prices[collector.SeriesFoilPrice], currency))
	}
	return b.String()
}

func priceString(p decimal.NullDecimal, currency string) string {
	if !p.Valid {
		return "-"
	}
	if currency == "" || currency == "USD" {
		return "$" + p.Decimal.StringFixed(2)
	}
	return p.Decimal.StringFixed(2) + " " + currency
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
