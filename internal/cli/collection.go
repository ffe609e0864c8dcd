package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cardcollector/internal/cache"
	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/config"
	"github.com/rshade/cardcollector/internal/pagination"
	"github.com/rshade/cardcollector/internal/session"
	"github.com/rshade/cardcollector/internal/tui"
)

// collectionParams are the flags of the collection command.
type collectionParams struct {
	page   int
	sort   string
	search string
	set    string
	rarity string
	plain  bool
}

// collectionOutput is the structured form of one collection page.
type collectionOutput struct {
	Cards         []collector.Card `json:"cards"          yaml:"cards"`
	Page          pagination.Meta  `json:"page"           yaml:"page"`
	Pages         []int            `json:"pages"          yaml:"pages"`
	TotalQuantity int              `json:"total_quantity" yaml:"total_quantity"`
	PageValue     string           `json:"page_value"     yaml:"page_value"`
}

// NewCollectionCmd creates the collection command. On a terminal it opens
// the interactive browser; otherwise, or with --plain, it prints one page.
func NewCollectionCmd() *cobra.Command {
	var params collectionParams

	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Browse the card collection",
		Long: `Browse the card collection page by page.

On a terminal this opens the interactive browser. With --plain, a structured
--output format, or when output is redirected, one page is printed instead.`,
		Example: `  # Open the interactive browser
  collector collection

  # Print the rares of set 42, sorted by price descending
  collector collection --set 42 --rarity R --sort price:desc --plain

  # Print page 3 as JSON
  collector collection --page 3 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollection(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.page, "page", pagination.DefaultPage, "page to show")
	cmd.Flags().StringVar(&params.sort, "sort", "", "sort as field[:asc|desc] (default from collection.default_sort)")
	cmd.Flags().StringVar(&params.search, "search", "", "only cards whose name contains this text")
	cmd.Flags().StringVar(&params.set, "set", "", "only cards of this set (id or code)")
	cmd.Flags().StringVar(&params.rarity, "rarity", "", "only cards of this rarity (C, U, R, M or S)")
	cmd.Flags().BoolVar(&params.plain, "plain", false, "print one page instead of opening the browser")

	return cmd
}

func runCollection(cmd *cobra.Command, params collectionParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	client, err := newClient()
	if err != nil {
		return err
	}
	store := openCache(cmd)
	loadSets := cachedSets(store, client)

	state, err := collectionState(ctx, cfg, params, loadSets)
	if err != nil {
		return err
	}

	format := outputFormat()
	if !params.plain && format == OutputTable && isTerminal(os.Stdout) && isTerminal(os.Stdin) {
		logger.Debug().Ctx(ctx).Str("operation", "collection").Msg("starting interactive browser")
		return tui.RunCollection(ctx, client,
			tui.WithState(state),
			tui.WithSetLoader(loadSets),
			tui.WithDebounce(time.Duration(cfg.Search.DebounceMS)*time.Millisecond),
			tui.WithMinSearchLength(cfg.Search.MinLength),
			tui.WithLogger(logger),
		)
	}

	page, err := client.FetchPage(ctx, state.Query())
	if err != nil {
		return err
	}
	state, next := session.Reduce(state, session.CollectionLoaded{TotalPages: page.TotalPages})
	// Past the end: the state was clamped to the last page.
	if fetch, ok := next.(session.FetchCollection); ok {
		if page, err = client.FetchPage(ctx, fetch.Query); err != nil {
			return err
		}
	}

	out := collectionOutput{
		Cards:         page.Cards,
		Page:          state.Meta(),
		TotalQuantity: page.TotalQuantity,
		PageValue:     formatMoney(page.PageValue(), pageCurrency(page.Cards)),
	}
	if w, werr := state.Window(); werr == nil {
		out.Pages = w.Pages()
	}
	if out.Cards == nil {
		out.Cards = []collector.Card{}
	}

	if format != OutputTable {
		return writeStructured(cmd.OutOrStdout(), format, out)
	}
	return renderCollection(cmd.OutOrStdout(), state, out)
}

// collectionState turns the flags into the initial browser state.
func collectionState(
	ctx context.Context,
	cfg *config.Config,
	params collectionParams,
	loadSets func(context.Context) ([]collector.CardSet, error),
) (session.State, error) {
	if err := pagination.ValidatePage(params.page); err != nil {
		return session.State{}, fmt.Errorf("%w: %w", collector.ErrValidation, err)
	}

	sortStr := params.sort
	if sortStr == "" {
		sortStr = cfg.Collection.DefaultSort
	}
	field, desc, err := pagination.ParseSort(sortStr)
	if err != nil {
		return session.State{}, fmt.Errorf("%w: %w", collector.ErrValidation, err)
	}

	rarity, err := resolveRarity(params.rarity)
	if err != nil {
		return session.State{}, err
	}
	set, err := resolveSet(ctx, params.set, loadSets)
	if err != nil {
		return session.State{}, err
	}

	state := session.NewState()
	state.Page.CurrentPage = params.page
	state.Sort = session.Sort{Field: field, Desc: desc}
	state.Filters = session.Filters{Search: strings.TrimSpace(params.search), Set: set, Rarity: rarity}
	if err = state.Query().Validate(); err != nil {
		return session.State{}, err
	}
	return state, nil
}

// resolveRarity accepts a rarity code or its display name.
func resolveRarity(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for _, code := range collector.Rarities() {
		if strings.EqualFold(value, code) || strings.EqualFold(value, collector.RarityName(code)) {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: unknown rarity %q (valid: %s)", collector.ErrValidation, value,
		strings.Join(collector.Rarities(), ", "))
}

// resolveSet accepts a set id, or a set code looked up in the set list.
func resolveSet(
	ctx context.Context,
	value string,
	loadSets func(context.Context) ([]collector.CardSet, error),
) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if id, err := strconv.Atoi(value); err == nil {
		if id <= 0 {
			return "", fmt.Errorf("%w: set id must be > 0, got %d", collector.ErrValidation, id)
		}
		return value, nil
	}

	sets, err := loadSets(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range sets {
		if strings.EqualFold(s.Code, value) {
			return strconv.Itoa(s.ID), nil
		}
	}
	return "", fmt.Errorf("%w: unknown set %q", collector.ErrValidation, value)
}

// cachedSets returns a set loader backed by the lookup cache.
func cachedSets(store *cache.Store, client *collector.Client) func(context.Context) ([]collector.CardSet, error) {
	return func(ctx context.Context) ([]collector.CardSet, error) {
		sets, _, err := cache.Fetch(ctx, store, cache.Key(cacheKeySets, client.BaseURL()), client.Sets)
		return sets, err
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

func renderCollection(w io.Writer, state session.State, out collectionOutput) error {
	if len(out.Cards) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return nil
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tName\tSet\tRarity\tQty\tFoil\tPrice")
	fmt.Fprintln(tw, "--\t----\t---\t------\t---\t----\t-----")
	for _, c := range out.Cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			c.UserCardID, c.Name, c.SetName, collector.RarityName(c.Rarity),
			c.Quantity, yesNo(c.Foil), formatPrice(c.Price, c.CurrencyCode))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if win, err := state.Window(); err == nil {
		fmt.Fprintf(w, "%s  Page %s of %s\n", windowLine(win),
			formatCount(out.Page.CurrentPage), formatCount(out.Page.TotalPages))
	}
	fmt.Fprintf(w, "Cards: %s  Page value: %s\n", formatCount(out.TotalQuantity), out.PageValue)
	return nil
}

// windowLine renders pagination controls as text, with the active page in brackets.
func windowLine(w pagination.Window) string {
	parts := make([]string, 0, len(w.Controls))
	for _, c := range w.Controls {
		switch c.Kind {
		case pagination.FirstPage:
			parts = append(parts, "«")
		case pagination.PrevPage:
			parts = append(parts, "‹")
		case pagination.EllipsisBefore, pagination.EllipsisAfter:
			parts = append(parts, "…")
		case pagination.NextPage:
			parts = append(parts, "›")
		case pagination.LastPage:
			parts = append(parts, "»")
		case pagination.PageNumber:
			if c.Active {
				parts = append(parts, "["+strconv.Itoa(c.Page)+"]")
			} else {
				parts = append(parts, strconv.Itoa(c.Page))
			}
		}
	}
	return strings.Join(parts, " ")
}

// NewSearchCmd creates the search command, which finds printings by name for
// use with "card add".
func NewSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find card printings by name",
		Example: `  # Find printings to add
  collector search "lightning bolt"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "))
		},
	}
}

func runSearch(cmd *cobra.Command, query string) error {
	query = strings.TrimSpace(query)
	minLen := config.GetGlobalConfig().Search.MinLength
	if len([]rune(query)) < minLen {
		return fmt.Errorf("%w: search needs at least %d characters", collector.ErrValidation, minLen)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	results, err := client.Search(cmd.Context(), query)
	if err != nil {
		return err
	}
	if results == nil {
		results = []collector.SearchResult{}
	}

	if format := outputFormat(); format != OutputTable {
		return writeStructured(cmd.OutOrStdout(), format, results)
	}
	if len(results) == 0 {
		cmd.Println("No matching cards.")
		return nil
	}
	tw := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(tw, "Printing ID\tName\tSet")
	fmt.Fprintln(tw, "-----------\t----\t---")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s (%s)\n", r.PrintingID, r.Name, r.SetName, r.SetCode)
	}
	return tw.Flush()
}

// NewSetsCmd creates the sets command, which lists the card sets usable with
// "collection --set".
func NewSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List card sets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			sets, err := cachedSets(openCache(cmd), client)(cmd.Context())
			if err != nil {
				return err
			}
			if sets == nil {
				sets = []collector.CardSet{}
			}

			if format := outputFormat(); format != OutputTable {
				return writeStructured(cmd.OutOrStdout(), format, sets)
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tCode\tName")
			fmt.Fprintln(tw, "--\t----\t----")
			for _, s := range sets {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Code, s.Name)
			}
			return tw.Flush()
		},
	}
}
