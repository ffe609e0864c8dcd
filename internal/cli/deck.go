package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/csvimport"
	"github.com/rshade/cardcollector/internal/tui"
)

const defaultDeckWidth = 80

// ErrNotConfirmed is returned when a destructive command was declined.
var ErrNotConfirmed = errors.New("not confirmed")

// NewDeckListCmd creates the deck list command.
func NewDeckListCmd() *cobra.Command {
	var deleted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decks",
		Example: `  # List decks
  collector deck list

  # List deleted decks
  collector deck list --deleted`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			decks, err := client.Decks(cmd.Context(), deleted)
			if err != nil {
				return err
			}
			if format := outputFormat(); format != OutputTable {
				return writeStructured(cmd.OutOrStdout(), format, decks)
			}
			cmd.Println(tui.RenderDeckSummaries(decks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleted, "deleted", false, "list deleted decks instead")

	return cmd
}

// NewDeckShowCmd creates the deck show command. Cards are grouped by type
// and the sideboard is omitted when it is empty.
func NewDeckShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <deck-id>",
		Short: "Show a deck grouped by card type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("deck id", args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			list, err := client.Deck(cmd.Context(), id)
			if err != nil {
				return err
			}

			if format := outputFormat(); format != OutputTable {
				return writeStructured(cmd.OutOrStdout(), format, list)
			}

			// The deck payload carries the format id only; the name comes from the deck list.
			formatName := ""
			if decks, listErr := client.Decks(cmd.Context(), list.Deck.Deleted); listErr == nil {
				for _, d := range decks {
					if d.ID == id {
						formatName = d.FormatName
						break
					}
				}
			} else {
				logger.Debug().Ctx(cmd.Context()).Err(listErr).Str("operation", "deck_show").
					Msg("format name unavailable")
			}

			cmd.Println(tui.RenderDeck(list, formatName, terminalWidth()))
			return nil
		},
	}
}

func terminalWidth() int {
	if isTerminal(os.Stdout) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultDeckWidth
}

// NewDeckSaveCmd creates the deck save command.
func NewDeckSaveCmd() *cobra.Command {
	var (
		name     string
		formatID int
	)

	cmd := &cobra.Command{
		Use:   "save <deck-id>",
		Short: "Rename a deck and set its format",
		Example: `  collector deck save 7 --name "Mono Red Burn" --format-id 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("deck id", args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			req := collector.SaveDeckRequest{DeckID: id, Name: name, FormatID: formatID}
			if err = client.SaveDeck(cmd.Context(), req); err != nil {
				return err
			}
			cmd.Println("Saved successfully.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "deck name")
	cmd.Flags().IntVar(&formatID, "format-id", 0, "format id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("format-id")

	return cmd
}

// NewDeckDeleteCmd creates the deck delete command. Deleted decks can be restored.
func NewDeckDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Move a deck to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("deck id", args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !isTerminal(os.Stdin) {
					return fmt.Errorf("%w: use --yes to delete without a terminal", ErrNotConfirmed)
				}
				if !Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), fmt.Sprintf("Delete deck %d?", id)).Accepted {
					return ErrNotConfirmed
				}
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			if err = client.DeleteDeck(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Deck %d deleted. Restore it with \"collector deck restore %d\".\n", id, id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

// NewDeckRestoreCmd creates the deck restore command.
func NewDeckRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <deck-id>",
		Short: "Restore a deleted deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("deck id", args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			if err = client.RestoreDeck(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Deck %d restored.\n", id)
			return nil
		},
	}
}

// NewDeckImportCmd creates the deck import command.
func NewDeckImportCmd() *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create a deck from a CSV",
		Long: `Create a deck from a CSV with the columns Name, Count and Section
(main or sideboard). The file is checked first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], checkOnly, csvimport.ValidateDeck,
				func(client *collector.Client, name string, r io.Reader) ([]int, error) {
					return nil, client.ImportDeck(cmd.Context(), name, r)
				})
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "check the file without uploading it")

	return cmd
}

// NewDeckArtCmd creates the deck art command.
func NewDeckArtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "art <deck-id> <card-id>",
		Short: "Use a card's art for a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck id", args[0])
			if err != nil {
				return err
			}
			cardID, err := parseID("card id", args[1])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			if err = client.SetDeckArt(cmd.Context(), collector.DeckArtRequest{DeckID: deckID, CardID: cardID}); err != nil {
				return err
			}
			cmd.Println("Saved successfully.")
			return nil
		},
	}
}

// NewDeckRemoveCardCmd creates the deck remove-card command.
func NewDeckRemoveCardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-card <deck-card-id>",
		Short: "Remove a card row from a deck",
		Long:  `Remove a card row from a deck. Row ids are shown by "collector deck show <id> -o json".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("deck card id", args[0])
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			if err = client.DeleteDeckCard(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Println("Card removed.")
			return nil
		},
	}
}
