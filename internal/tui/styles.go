// Package tui renders the interactive card collection browser and the deck
// view with Bubble Tea.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Colors.
const (
	colorAccent  = lipgloss.Color("39")
	colorMuted   = lipgloss.Color("244")
	colorSuccess = lipgloss.Color("42")
	colorError   = lipgloss.Color("196")
	colorWarning = lipgloss.Color("214")
	colorBorder  = lipgloss.Color("238")
)

// Shared styles.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values shared by every view.
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	LabelStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	ValueStyle   = lipgloss.NewStyle().Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	ActivePageStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	PageStyle       = lipgloss.NewStyle().Padding(0, 1)
	SelectedStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	ChipStyle       = lipgloss.NewStyle().Foreground(colorAccent).Padding(0, 1)
	BoxStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
)

// ViewState is the screen the browser is showing.
type ViewState int

const (
	// ViewStateLoading waits for the first collection page.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the collection table.
	ViewStateList
	// ViewStateSearch has focus in the collection search box.
	ViewStateSearch
	// ViewStateAdd shows the add-card search.
	ViewStateAdd
	// ViewStateEdit shows the edit form for one card.
	ViewStateEdit
	// ViewStatePicker shows a set, rarity or page menu.
	ViewStatePicker
	// ViewStateDetail shows card detail with price history.
	ViewStateDetail
	// ViewStateQuitting is set just before the program exits.
	ViewStateQuitting
)

// Key names.
const (
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyCtrlC     = "ctrl+c"
	keyQuit      = "q"
	keyTab       = "tab"
	keyShiftTab  = "shift+tab"
	keyBackspace = "backspace"
	keyUp        = "up"
	keyDown      = "down"
	keyLeft      = "left"
	keyRight     = "right"
	keyHome      = "home"
	keyEnd       = "end"
	keySpace     = " "
)

// Default terminal size before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 30
	borderPadding = 2
)

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "> "
	return ti
}

// LoadingState wraps the spinner shown while the first page loads.
type LoadingState struct {
	spinner spinner.Model
}

// NewLoadingState returns a dot spinner.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return &LoadingState{spinner: s}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner frame.
func (l *LoadingState) View() string {
	return l.spinner.View()
}

// currencySymbol returns the symbol for an ISO 4217 code, or the code itself.
func currencySymbol(code string) string {
	switch code {
	case "", "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "JPY", "CNY":
		return "¥"
	case "CAD":
		return "C$"
	case "AUD":
		return "A$"
	default:
		return code
	}
}

// formatPrice renders an optional price. Unknown prices render as "-".
func formatPrice(price decimal.NullDecimal, currency string) string {
	if !price.Valid {
		return "-"
	}
	return formatMoney(price.Decimal, currency)
}

func formatMoney(d decimal.Decimal, currency string) string {
	return currencySymbol(currency) + d.StringFixed(2)
}

//nolint:gochecknoglobals // Printers are safe for concurrent use.
var printer = message.NewPrinter(language.English)

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// truncate shortens s to width runes, ending in "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
