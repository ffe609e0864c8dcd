package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/logging"
	"github.com/rshade/cardcollector/internal/pagination"
	"github.com/rshade/cardcollector/internal/session"
	"github.com/rshade/cardcollector/internal/tui/detail"
	listview "github.com/rshade/cardcollector/internal/tui/list"
)

const (
	toastDuration = 4 * time.Second

	// Rows reserved for header, filters, pagination and help.
	chromeHeight = 10
	pickerHeight = 12

	colWidthName   = 32
	colWidthSet    = 22
	colWidthRarity = 12
	colWidthQty    = 5
	colWidthFoil   = 5
	colWidthPrice  = 10
	colWidthValue  = 11
)

// sortKeys maps the number keys to table columns, left to right.
//
//nolint:gochecknoglobals // Fixed key table.
var sortKeys = map[string]pagination.SortField{
	"1": pagination.SortByName,
	"2": pagination.SortBySet,
	"3": pagination.SortByRarity,
	"4": pagination.SortByQuantity,
	"5": pagination.SortByFoil,
	"6": pagination.SortByPrice,
}

// Service is what the browser needs from the collection service.
type Service interface {
	detail.Loader
	collector.CollectionQueryService
	collector.CardSearcher
	Sets(ctx context.Context) ([]collector.CardSet, error)
	AddCard(ctx context.Context, req collector.AddCardRequest) error
	EditCard(ctx context.Context, req collector.EditCardRequest) error
}

// Executor runs session commands and returns the sequence number the
// matching ResultMsg will carry. *session.Runner implements it.
type Executor interface {
	Execute(ctx context.Context, cmd session.Command) uint64
}

// ResultMsg delivers a runner result to the program.
type ResultMsg session.Result

type startMsg struct{}

type toastExpiredMsg struct{ id int }

type setsLoadedMsg struct {
	sets []collector.CardSet
	err  error
}

type cardAddedMsg struct {
	name string
	err  error
}

type cardSavedMsg struct{ err error }

type editDetailMsg struct {
	userCardID int
	detail     collector.CardDetail
	err        error
}

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

type toast struct {
	id   int
	text string
	kind toastKind
}

type pickerKind int

const (
	pickSet pickerKind = iota
	pickRarity
	pickPage
)

type pickItem struct {
	label string
	value string
	page  int
}

// editField indexes the edit form inputs.
const (
	editQuantity = iota
	editFoil
	editTCGPlayer
	editFieldCount
)

type editForm struct {
	card     collector.Card
	quantity textinput.Model
	tcg      textinput.Model
	foil     bool
	focus    int
	saving   bool
}

// Option configures a CollectionModel.
type Option func(*options)

type options struct {
	minSearchLength int
	debounce        time.Duration
	loadSets        func(ctx context.Context) ([]collector.CardSet, error)
	logger          zerolog.Logger
	state           *session.State
}

// WithMinSearchLength overrides session.MinSearchLength.
func WithMinSearchLength(n int) Option {
	return func(o *options) { o.minSearchLength = n }
}

// WithDebounce overrides session.DebounceWindow.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithSetLoader replaces Service.Sets for the set filter, e.g. with a cached lookup.
func WithSetLoader(fn func(ctx context.Context) ([]collector.CardSet, error)) Option {
	return func(o *options) { o.loadSets = fn }
}

// WithState starts the browser from s instead of session.NewState.
func WithState(s session.State) Option {
	return func(o *options) { o.state = &s }
}

// WithLogger sets the browser logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// CollectionModel is the Bubble Tea model for the interactive collection browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type CollectionModel struct {
	ctx     context.Context
	svc     Service
	exec    Executor
	reducer session.Reducer
	opts    options
	logger  zerolog.Logger

	view  ViewState
	state session.State

	// Sequence numbers of the latest request per lane.
	collectionSeq uint64
	searchSeq     uint64

	cards         []collector.Card
	totalQuantity int
	pageValue     string

	table       table.Model
	searchInput textinput.Model
	addInput    textinput.Model
	results     *listview.Model[collector.SearchResult]
	adding      bool

	picker     *listview.Model[pickItem]
	pickerKind pickerKind
	sets       []collector.CardSet
	setsLoaded bool

	edit   *editForm
	detail detail.Model

	toast   *toast
	toastID int

	width   int
	height  int
	loading *LoadingState
}

// NewCollectionModel returns a browser that issues requests through exec.
// The first page is requested when the program starts.
func NewCollectionModel(ctx context.Context, svc Service, exec Executor, opts ...Option) CollectionModel {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loadSets == nil {
		o.loadSets = svc.Sets
	}

	m := CollectionModel{
		ctx:         ctx,
		svc:         svc,
		exec:        exec,
		reducer:     session.Reducer{MinSearchLength: o.minSearchLength},
		opts:        o,
		logger:      logging.ComponentLogger(o.logger, "tui"),
		view:        ViewStateLoading,
		state:       session.NewState(),
		searchInput: newTextInput("Search your collection"),
		addInput:    newTextInput("Card name"),
		width:       defaultWidth,
		height:      defaultHeight,
		loading:     NewLoadingState(),
	}
	if o.state != nil {
		m.state = *o.state
		m.searchInput.SetValue(m.state.Filters.Search)
	}
	m.results = listview.New("", nil, pickerHeight, renderSearchResult)
	m.table = m.buildTable()
	return m
}

// State returns the browser state.
func (m CollectionModel) State() session.State {
	return m.state
}

// ViewState returns the active screen.
func (m CollectionModel) ViewState() ViewState {
	return m.view
}

// Cards returns the cards of the current page.
func (m CollectionModel) Cards() []collector.Card {
	return m.cards
}

// Init starts the spinner and requests the first page.
func (m CollectionModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), func() tea.Msg { return startMsg{} })
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m CollectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - borderPadding)
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return m, nil
	case startMsg:
		m.dispatch(session.Reload{})
		return m, nil
	case ResultMsg:
		return m.handleResult(msg)
	case setsLoadedMsg:
		return m.handleSetsLoaded(msg)
	case cardAddedMsg:
		return m.handleCardAdded(msg)
	case cardSavedMsg:
		return m.handleCardSaved(msg)
	case editDetailMsg:
		if m.edit != nil && m.edit.card.UserCardID == msg.userCardID && msg.err == nil &&
			msg.detail.TCGPlayerProductID != nil && m.edit.tcg.Value() == "" {
			m.edit.tcg.SetValue(strconv.Itoa(*msg.detail.TCGPlayerProductID))
		}
		return m, nil
	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil
	case detail.LoadedMsg, detail.RefreshedMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			m.view = ViewStateQuitting
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	if m.view == ViewStateLoading {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

func (m CollectionModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewStateLoading:
		if msg.String() == keyQuit {
			m.view = ViewStateQuitting
			return m, tea.Quit
		}
		return m, nil
	case ViewStateList:
		return m.handleListKey(msg)
	case ViewStateSearch:
		return m.handleSearchKey(msg)
	case ViewStateAdd:
		return m.handleAddKey(msg)
	case ViewStateEdit:
		return m.handleEditKey(msg)
	case ViewStatePicker:
		return m.handlePickerKey(msg)
	case ViewStateDetail:
		if msg.String() == keyEsc || msg.String() == keyQuit {
			m.view = ViewStateList
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	case ViewStateQuitting:
	}
	return m, nil
}

//nolint:cyclop,funlen // One branch per key binding.
func (m CollectionModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if field, ok := sortKeys[key]; ok {
		m.dispatch(session.SortBy{Field: field})
		return m, nil
	}

	switch key {
	case keyQuit:
		m.view = ViewStateQuitting
		return m, tea.Quit
	case keyLeft, "h":
		m.dispatch(session.GoPrev{})
	case keyRight, "l":
		m.dispatch(session.GoNext{})
	case keyHome, "g":
		m.dispatch(session.GoFirst{})
	case keyEnd, "G":
		m.dispatch(session.GoLast{})
	case "p":
		return m.openPagePicker()
	case "[":
		return m.openPageMenu(true)
	case "]":
		return m.openPageMenu(false)
	case "/":
		m.view = ViewStateSearch
		return m, m.searchInput.Focus()
	case "a":
		m.view = ViewStateAdd
		return m, m.addInput.Focus()
	case "e":
		return m.openEdit()
	case keyEnter:
		card, ok := m.selectedCard()
		if !ok {
			return m, nil
		}
		m.detail = detail.New(m.ctx, m.svc, card)
		m.view = ViewStateDetail
		return m, m.detail.Init()
	case "s":
		return m.openSetPicker()
	case "r":
		m.openRarityPicker()
	case "x":
		if active := m.state.ActiveFilters(); len(active) > 0 {
			last := active[len(active)-1]
			if last == session.FilterSearch {
				m.searchInput.SetValue("")
			}
			m.dispatch(session.FilterRemoved{Key: last})
		}
	case "R":
		m.dispatch(session.Reload{})
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m CollectionModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter, keyEsc:
		m.searchInput.Blur()
		m.view = ViewStateList
		return m, nil
	}
	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if text := m.searchInput.Value(); text != before {
		m.dispatch(session.SearchTyped{Text: text})
	}
	return m, cmd
}

func (m CollectionModel) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.addInput.Blur()
		m.view = ViewStateList
		return m, nil
	case keyUp, keyDown:
		m.results.Update(msg)
		return m, nil
	case keyEnter:
		return m.addSelected()
	}
	var cmd tea.Cmd
	before := m.addInput.Value()
	m.addInput, cmd = m.addInput.Update(msg)
	if text := m.addInput.Value(); text != before {
		if strings.TrimSpace(text) == "" {
			m.results.SetItems(nil)
		}
		m.dispatch(session.AddSearchTyped{Query: text})
	}
	return m, cmd
}

func (m CollectionModel) addSelected() (tea.Model, tea.Cmd) {
	res, ok := m.results.Selected()
	if !ok || m.adding {
		return m, nil
	}
	m.adding = true
	ctx, svc := m.ctx, m.svc
	return m, func() tea.Msg {
		err := svc.AddCard(ctx, collector.AddCardRequest{PrintingID: res.PrintingID, Quantity: 1})
		return cardAddedMsg{name: res.Name, err: err}
	}
}

func (m CollectionModel) handleCardAdded(msg cardAddedMsg) (tea.Model, tea.Cmd) {
	m.adding = false
	if msg.err != nil {
		return m, m.showError(msg.err)
	}
	m.addInput.Blur()
	m.view = ViewStateList
	m.dispatch(session.CardAdded{})
	m.searchInput.SetValue(m.state.Filters.Search)
	return m, m.showToast(fmt.Sprintf("Added %s (x1) successfully.", msg.name), toastSuccess)
}

func (m CollectionModel) openEdit() (tea.Model, tea.Cmd) {
	card, ok := m.selectedCard()
	if !ok {
		return m, nil
	}
	form := &editForm{
		card:     card,
		quantity: newTextInput("Quantity"),
		tcg:      newTextInput("TCGPlayer product ID"),
		foil:     card.Foil,
	}
	form.quantity.SetValue(strconv.Itoa(card.Quantity))
	m.edit = form
	m.view = ViewStateEdit

	ctx, svc, id := m.ctx, m.svc, card.UserCardID
	return m, tea.Batch(form.quantity.Focus(), func() tea.Msg {
		d, err := svc.Card(ctx, id)
		return editDetailMsg{userCardID: id, detail: d, err: err}
	})
}

func (m CollectionModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.edit
	switch msg.String() {
	case keyEsc:
		m.edit = nil
		m.view = ViewStateList
		return m, nil
	case keyTab, keyDown:
		return m, f.setFocus((f.focus + 1) % editFieldCount)
	case keyShiftTab, keyUp:
		return m, f.setFocus((f.focus + editFieldCount - 1) % editFieldCount)
	case keyEnter:
		return m.saveEdit()
	case keySpace:
		if f.focus == editFoil {
			f.foil = !f.foil
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case editQuantity:
		f.quantity, cmd = f.quantity.Update(msg)
	case editTCGPlayer:
		f.tcg, cmd = f.tcg.Update(msg)
	}
	return m, cmd
}

func (f *editForm) setFocus(i int) tea.Cmd {
	f.focus = i
	f.quantity.Blur()
	f.tcg.Blur()
	switch i {
	case editQuantity:
		return f.quantity.Focus()
	case editTCGPlayer:
		return f.tcg.Focus()
	}
	return nil
}

// request parses the form into an edit request.
func (f *editForm) request() (collector.EditCardRequest, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(f.quantity.Value()))
	if err != nil || qty < 0 {
		return collector.EditCardRequest{}, fmt.Errorf("%w: quantity must be a whole number of 0 or more",
			collector.ErrValidation)
	}
	tcg := 0
	if v := strings.TrimSpace(f.tcg.Value()); v != "" {
		tcg, err = strconv.Atoi(v)
		if err != nil || tcg <= 0 {
			return collector.EditCardRequest{}, fmt.Errorf("%w: TCGPlayer product ID must be a positive number",
				collector.ErrValidation)
		}
	}
	return collector.EditCardRequest{
		UserCardID:         f.card.UserCardID,
		Quantity:           qty,
		Foil:               f.foil,
		TCGPlayerProductID: tcg,
	}, nil
}

func (m CollectionModel) saveEdit() (tea.Model, tea.Cmd) {
	if m.edit.saving {
		return m, nil
	}
	req, err := m.edit.request()
	if err != nil {
		return m, m.showError(err)
	}
	m.edit.saving = true
	ctx, svc := m.ctx, m.svc
	return m, func() tea.Msg {
		return cardSavedMsg{err: svc.EditCard(ctx, req)}
	}
}

func (m CollectionModel) handleCardSaved(msg cardSavedMsg) (tea.Model, tea.Cmd) {
	if m.edit != nil {
		m.edit.saving = false
	}
	if msg.err != nil {
		return m, m.showError(msg.err)
	}
	m.edit = nil
	m.view = ViewStateList
	m.dispatch(session.Reload{})
	return m, m.showToast("Saved successfully.", toastSuccess)
}

func (m CollectionModel) openSetPicker() (tea.Model, tea.Cmd) {
	m.pickerKind = pickSet
	m.picker = listview.New("Filter by set", m.setItems(), pickerHeight, renderPickItem)
	m.view = ViewStatePicker
	if m.setsLoaded {
		return m, nil
	}
	ctx, load := m.ctx, m.opts.loadSets
	return m, func() tea.Msg {
		sets, err := load(ctx)
		return setsLoadedMsg{sets: sets, err: err}
	}
}

func (m CollectionModel) handleSetsLoaded(msg setsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.showError(msg.err)
	}
	m.sets = msg.sets
	m.setsLoaded = true
	if m.view == ViewStatePicker && m.pickerKind == pickSet {
		m.picker.SetItems(m.setItems())
	}
	return m, nil
}

func (m CollectionModel) setItems() []pickItem {
	items := []pickItem{{label: "Any set"}}
	for _, s := range m.sets {
		items = append(items, pickItem{
			label: fmt.Sprintf("%s (%s)", s.Name, s.Code),
			value: strconv.Itoa(s.ID),
		})
	}
	return items
}

func (m *CollectionModel) openRarityPicker() {
	items := []pickItem{{label: "Any rarity"}}
	for _, r := range collector.Rarities() {
		items = append(items, pickItem{label: collector.RarityName(r), value: r})
	}
	m.pickerKind = pickRarity
	m.picker = listview.New("Filter by rarity", items, pickerHeight, renderPickItem)
	m.view = ViewStatePicker
}

// openPageMenu lists the pages hidden behind one of the window ellipses.
func (m CollectionModel) openPageMenu(before bool) (tea.Model, tea.Cmd) {
	w, err := m.state.Window()
	if err != nil {
		return m, nil
	}
	pages, title := w.ExtrasAfter, "Jump to page"
	if before {
		pages = w.ExtrasBefore
	}
	if len(pages) == 0 {
		return m, nil
	}
	items := make([]pickItem, 0, len(pages))
	for _, p := range pages {
		items = append(items, pickItem{label: "Page " + strconv.Itoa(p), page: p})
	}
	m.pickerKind = pickPage
	m.picker = listview.New(title, items, pickerHeight, renderPickItem)
	m.view = ViewStatePicker
	return m, nil
}

// openPagePicker lists the page numbers of the current window with the
// active page selected.
func (m CollectionModel) openPagePicker() (tea.Model, tea.Cmd) {
	w, err := m.state.Window()
	if err != nil {
		return m, nil
	}
	pages := w.Pages()
	if len(pages) == 0 {
		return m, nil
	}
	items := make([]pickItem, 0, len(pages))
	active, cursor := w.Active(), 0
	for i, p := range pages {
		label := "Page " + strconv.Itoa(p)
		if p == active {
			label += " (current)"
			cursor = i
		}
		items = append(items, pickItem{label: label, page: p})
	}
	m.pickerKind = pickPage
	m.picker = listview.New("Go to page", items, pickerHeight, renderPickItem)
	m.picker.SetCursor(cursor)
	m.view = ViewStatePicker
	return m, nil
}

func (m CollectionModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, keyQuit:
		m.view = ViewStateList
		return m, nil
	case keyEnter:
		item, ok := m.picker.Selected()
		m.view = ViewStateList
		if !ok {
			return m, nil
		}
		switch m.pickerKind {
		case pickSet:
			m.dispatch(session.FiltersApplied{Set: item.value, Rarity: m.state.Filters.Rarity})
		case pickRarity:
			m.dispatch(session.FiltersApplied{Set: m.state.Filters.Set, Rarity: item.value})
		case pickPage:
			m.dispatch(session.ControlClicked{
				Control: pagination.Control{Kind: pagination.PageNumber, Page: item.page},
			})
		}
		return m, nil
	}
	m.picker.Update(msg)
	return m, nil
}

func (m CollectionModel) handleResult(r ResultMsg) (tea.Model, tea.Cmd) {
	switch r.Lane {
	case session.CollectionLane:
		if r.Seq != m.collectionSeq {
			return m, nil
		}
		if m.view == ViewStateLoading {
			m.view = ViewStateList
		}
		if r.Err != nil {
			return m, m.showError(r.Err)
		}
		m.cards = r.Page.Cards
		m.totalQuantity = r.Page.TotalQuantity
		m.pageValue = formatMoney(r.Page.PageValue(), pageCurrency(r.Page.Cards))
		m.dispatch(session.CollectionLoaded{TotalPages: r.Page.TotalPages})
		m.refreshTable()

	case session.SearchLane:
		if r.Seq != m.searchSeq {
			return m, nil
		}
		if r.Err != nil {
			return m, m.showError(r.Err)
		}
		m.results.SetItems(r.Results)
	}
	return m, nil
}

// dispatch reduces a and runs the resulting command, remembering its sequence.
func (m *CollectionModel) dispatch(a session.Action) {
	state, cmd := m.reducer.Reduce(m.state, a)
	m.state = state
	seq := m.exec.Execute(m.ctx, cmd)
	if c, ok := cmd.(session.CancelPending); ok {
		// A result already queued for the cancelled request must not land.
		switch c.Lane {
		case session.CollectionLane:
			m.collectionSeq = 0
		case session.SearchLane:
			m.searchSeq = 0
		}
		return
	}
	if seq == 0 {
		return
	}
	switch cmd.(type) {
	case session.FetchCollection:
		m.collectionSeq = seq
		m.table.SetColumns(m.columns())
	case session.FetchSearch:
		m.searchSeq = seq
	}
	m.logger.Debug().Ctx(m.ctx).
		Str("operation", "dispatch").
		Str("action", fmt.Sprintf("%T", a)).
		Uint64("seq", seq).
		Msg("command issued")
}

func (m *CollectionModel) showToast(text string, kind toastKind) tea.Cmd {
	if text == "" {
		return nil
	}
	m.toastID++
	id := m.toastID
	m.toast = &toast{id: id, text: text, kind: kind}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

// showError surfaces err as a toast. Aborted requests show nothing.
func (m *CollectionModel) showError(err error) tea.Cmd {
	m.logger.Warn().Ctx(m.ctx).Err(err).Str("operation", "request").Msg("request failed")
	return m.showToast(collector.UserMessage(err), toastError)
}

func (m CollectionModel) selectedCard() (collector.Card, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.cards) {
		return collector.Card{}, false
	}
	return m.cards[i], true
}

func (m CollectionModel) columns() []table.Column {
	title := func(field pagination.SortField, key, name string) string {
		t := key + " " + name
		if m.state.Sort.Field == field {
			if m.state.Sort.Desc {
				return t + " ▼"
			}
			return t + " ▲"
		}
		return t
	}
	return []table.Column{
		{Title: title(pagination.SortByName, "1", "Name"), Width: colWidthName},
		{Title: title(pagination.SortBySet, "2", "Set"), Width: colWidthSet},
		{Title: title(pagination.SortByRarity, "3", "Rarity"), Width: colWidthRarity},
		{Title: title(pagination.SortByQuantity, "4", "Qty"), Width: colWidthQty + 3},
		{Title: title(pagination.SortByFoil, "5", "Foil"), Width: colWidthFoil + 3},
		{Title: title(pagination.SortByPrice, "6", "Price"), Width: colWidthPrice},
		{Title: "Value", Width: colWidthValue},
	}
}

func (m CollectionModel) buildTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chromeHeight, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(colorAccent)
	s.Selected = s.Selected.Foreground(colorAccent).Bold(true)
	t.SetStyles(s)
	return t
}

func (m *CollectionModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.cards))
	for _, c := range m.cards {
		foil := ""
		if c.Foil {
			foil = "✓"
		}
		rows = append(rows, table.Row{
			truncate(c.Name, colWidthName),
			truncate(c.SetName, colWidthSet),
			c.Rarity,
			strconv.Itoa(c.Quantity),
			foil,
			formatPrice(c.Price, c.CurrencyCode),
			formatMoney(c.Value(), c.CurrencyCode),
		})
	}
	m.table.SetColumns(m.columns())
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func pageCurrency(cards []collector.Card) string {
	for _, c := range cards {
		if c.CurrencyCode != "" {
			return c.CurrencyCode
		}
	}
	return ""
}

func renderSearchResult(r collector.SearchResult, selected bool) string {
	line := fmt.Sprintf("%s  %s", r.Name, LabelStyle.Render(fmt.Sprintf("%s (%s)", r.SetName, r.SetCode)))
	if selected {
		return SelectedStyle.Render("> ") + line
	}
	return "  " + line
}

func renderPickItem(item pickItem, selected bool) string {
	if selected {
		return SelectedStyle.Render("> " + item.label)
	}
	return "  " + item.label
}
