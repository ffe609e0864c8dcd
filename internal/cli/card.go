package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/cardcollector/internal/batch"
	"github.com/rshade/cardcollector/internal/cache"
	"github.com/rshade/cardcollector/internal/collector"
)

// parseID parses a positive integer id argument.
func parseID(name, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive whole number, got %q", collector.ErrValidation, name, arg)
	}
	return id, nil
}

func priceHistoryKey(client *collector.Client, userCardID int) string {
	return cache.Key(cacheKeyPriceHistory, client.BaseURL(), strconv.Itoa(userCardID))
}

// cachedPriceHistory loads the price history of a card through the lookup cache.
func cachedPriceHistory(
	ctx context.Context,
	store *cache.Store,
	client *collector.Client,
	userCardID int,
) (collector.PriceHistory, error) {
	h, _, err := cache.Fetch(ctx, store, priceHistoryKey(client, userCardID),
		func(ctx context.Context) (collector.PriceHistory, error) {
			return client.PriceHistory(ctx, userCardID)
		})
	return h, err
}

// NewCardAddCmd creates the card add command.
func NewCardAddCmd() *cobra.Command {
	var (
		quantity int
		foil     bool
	)

	cmd := &cobra.Command{
		Use:   "add <printing-id>",
		Short: "Add copies of a printing to the collection",
		Example: `  # Add one copy of printing 12345 (ids come from "collector search")
  collector card add 12345

  # Add four foil copies
  collector card add 12345 --quantity 4 --foil`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("printing id", args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			req := collector.AddCardRequest{PrintingID: id, Foil: foil, Quantity: quantity}
			if err = client.AddCard(cmd.Context(), req); err != nil {
				return err
			}
			cmd.Printf("Added printing %d (x%d) successfully.\n", id, quantity)
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "quantity", 1, "number of copies to add")
	cmd.Flags().BoolVar(&foil, "foil", false, "add foil copies")

	return cmd
}

// NewCardEditCmd creates the card edit command. Fields whose flags are not
// given keep their current values.
func NewCardEditCmd() *cobra.Command {
	var (
		quantity  int
		foil      bool
		tcgplayer int
	)

	cmd := &cobra.Command{
		Use:   "edit <user-card-id>",
		Short: "Change quantity, foil or TCGPlayer id of an owned card",
		Long: `Change quantity, foil or TCGPlayer product id of an owned card.

Setting the quantity to 0 removes the card from the collection.
A TCGPlayer id of 0 clears it.`,
		Example: `  # Own three copies
  collector card edit 881 --quantity 3

  # Remove the card
  collector card edit 881 --quantity 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user card id", args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			current, err := client.Card(cmd.Context(), id)
			if err != nil {
				return err
			}
			req := collector.EditCardRequest{UserCardID: id, Quantity: current.Quantity, Foil: current.Foil}
			if current.TCGPlayerProductID != nil {
				req.TCGPlayerProductID = *current.TCGPlayerProductID
			}
			if cmd.Flags().Changed("quantity") {
				req.Quantity = quantity
			}
			if cmd.Flags().Changed("foil") {
				req.Foil = foil
			}
			if cmd.Flags().Changed("tcgplayer-id") {
				req.TCGPlayerProductID = tcgplayer
			}

			if err = client.EditCard(cmd.Context(), req); err != nil {
				return err
			}
			if req.Quantity == 0 {
				cmd.Printf("Removed %s from the collection.\n", current.Name)
				return nil
			}
			cmd.Println("Saved successfully.")
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "quantity", 0, "number of copies owned (0 removes the card)")
	cmd.Flags().BoolVar(&foil, "foil", false, "whether the copies are foil")
	cmd.Flags().IntVar(&tcgplayer, "tcgplayer-id", 0, "TCGPlayer product id (0 clears it)")

	return cmd
}

// cardView is the structured form of "card show".
type cardView struct {
	Card    collector.CardDetail   `json:"card"    yaml:"card"`
	History collector.PriceHistory `json:"history" yaml:"history"`
}

// NewCardShowCmd creates the card show command. The card and its price
// history are fetched concurrently.
func NewCardShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-card-id>",
		Short: "Show an owned card with its decks and latest prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user card id", args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			store := openCache(cmd)

			var view cardView
			g, gCtx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var cardErr error
				view.Card, cardErr = client.Card(gCtx, id)
				return cardErr
			})
			g.Go(func() error {
				var histErr error
				view.History, histErr = cachedPriceHistory(gCtx, store, client, id)
				return histErr
			})
			if err = g.Wait(); err != nil {
				return err
			}

			if format := outputFormat(); format != OutputTable {
				return writeStructured(cmd.OutOrStdout(), format, view)
			}
			return renderCard(cmd.OutOrStdout(), view)
		},
	}
}

func renderCard(w io.Writer, v cardView) error {
	c := v.Card
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Set:\t%s\n", c.SetName)
	fmt.Fprintf(tw, "Rarity:\t%s\n", collector.RarityName(c.Rarity))
	fmt.Fprintf(tw, "Quantity:\t%d\n", c.Quantity)
	fmt.Fprintf(tw, "Foil:\t%s\n", yesNo(c.Foil))
	fmt.Fprintf(tw, "Price:\t%s\n", formatPrice(c.Price, c.CurrencyCode))
	if c.PriceLastUpdated != "" {
		fmt.Fprintf(tw, "Price updated:\t%s\n", c.PriceLastUpdated)
	}
	if latest, ok := v.History.Latest(collector.SeriesFoilPrice); ok {
		fmt.Fprintf(tw, "Foil price:\t%s\n", formatMoney(latest, c.CurrencyCode))
	}
	if c.TCGPlayerProductID != nil {
		fmt.Fprintf(tw, "TCGPlayer id:\t%d\n", *c.TCGPlayerProductID)
	}
	fmt.Fprintf(tw, "Printings owned:\t%d\n", c.PrintingsOwned)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(c.Decks) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Decks:")
	for _, d := range c.Decks {
		fmt.Fprintf(w, "  %dx %s (%s)\n", d.Quantity, d.Name, d.FormatName)
	}
	return nil
}

// NewCardPricesCmd creates the card prices command.
func NewCardPricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prices <user-card-id>",
		Short: "Show the daily price history of an owned card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user card id", args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			history, err := cachedPriceHistory(cmd.Context(), openCache(cmd), client, id)
			if err != nil {
				return err
			}

			if format := outputFormat(); format != OutputTable {
				return writeStructured(cmd.OutOrStdout(), format, history)
			}
			points := history.Points()
			if len(points) == 0 {
				cmd.Println("No price history.")
				return nil
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Date\t%s\t%s\n", collector.SeriesPrice, collector.SeriesFoilPrice)
			fmt.Fprintln(tw, "----\t-----\t----------")
			for _, p := range points {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Date,
					formatPrice(p.Prices[collector.SeriesPrice], ""),
					formatPrice(p.Prices[collector.SeriesFoilPrice], ""))
			}
			return tw.Flush()
		},
	}
}

// NewCardRefreshCmd creates the card refresh command. The cached price
// history of each refreshed card is dropped afterwards.
func NewCardRefreshCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "refresh <user-card-id>...",
		Short: "Re-fetch the current price of owned cards",
		Example: `  # Refresh one card
  collector card refresh 881

  # Refresh several cards, two at a time
  collector card refresh 881 882 883 --concurrency 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := parseID("user card id", arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			runner, err := batch.New[int](concurrency)
			if err != nil {
				return fmt.Errorf("%w: %w", collector.ErrValidation, err)
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			return runRefresh(cmd, client, openCache(cmd), runner, ids)
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultConcurrency, "number of refreshes in flight")
	return cmd
}

func runRefresh(
	cmd *cobra.Command,
	client *collector.Client,
	store *cache.Store,
	runner *batch.Runner[int],
	ids []int,
) error {
	ctx := cmd.Context()
	if len(ids) > 1 && isTerminal(os.Stderr) {
		runner.WithProgress(func(p batch.Progress) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rRefreshing prices: %d/%d", p.Done, p.Total)
			if p.IsComplete() {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		})
	}

	results, err := runner.Run(ctx, ids, func(ctx context.Context, id int) error {
		if refreshErr := client.RefreshPrice(ctx, id); refreshErr != nil {
			return refreshErr
		}
		if !store.Enabled() {
			return nil
		}
		if delErr := store.Delete(priceHistoryKey(client, id)); delErr != nil {
			logger.Warn().Ctx(ctx).Err(delErr).Str("operation", "refresh").Int("user_card_id", id).
				Msg("could not drop cached price history")
		}
		return nil
	})

	if len(ids) == 1 {
		if results[0].Err != nil {
			return results[0].Err
		}
		if err != nil {
			return err
		}
		cmd.Println("Price refreshed.")
		return nil
	}

	refreshed := 0
	for _, res := range results {
		if res.Err == nil {
			refreshed++
			continue
		}
		cmd.PrintErrf("Card %d: %s\n", res.Item, ErrorMessage(res.Err))
	}
	cmd.Printf("Refreshed %d of %d prices.\n", refreshed, len(ids))
	return err
}
