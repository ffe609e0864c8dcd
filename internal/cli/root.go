package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/cardcollector/internal/config"
	"github.com/rshade/cardcollector/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the collector CLI.
// It loads configuration, wires up logging and tracing, and registers the
// collection, card, deck, import, session, config and cache commands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "collector",
		Short:         "Card collection client",
		Long:          "collector: browse and maintain a trading card collection and its decks",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("server", "", "collection service URL (overrides server.url)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json or yaml (default from output.default_format)")
	cmd.PersistentFlags().Bool("no-cache", false, "bypass the lookup cache")
	cmd.PersistentFlags().String("project-dir", "", "project .cardcollector directory with a config overlay")

	cmd.AddCommand(
		NewCollectionCmd(), NewSearchCmd(), NewSetsCmd(),
		newCardCmd(), NewImportCmd(), newDeckCmd(),
		NewLoginCmd(), NewLogoutCmd(),
		newConfigCmd(), newCacheCmd(),
	)

	return cmd
}

// loadConfig resolves the project directory, merges its overlay onto the
// global config and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()

	projectFlag, _ := cmd.Flags().GetString("project-dir")
	wd, _ := os.Getwd()
	projectDir := config.ResolveProjectDir(ctx, projectFlag, wd)
	config.SetResolvedProjectDir(projectDir)

	cfg := config.NewWithProjectDir(ctx, projectDir)
	if cmd.Flags().Changed("server") {
		cfg.Server.URL, _ = cmd.Flags().GetString("server")
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	if cmd.Flags().Changed("output") {
		format, _ := cmd.Flags().GetString("output")
		if _, err := parseFormat(format); err != nil {
			return err
		}
		cfg.Output.DefaultFormat = format
	}
	if cfg.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: got %d", config.ErrInvalidTimeout, cfg.Server.TimeoutSeconds)
	}
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Browse the collection interactively
  collector collection

  # Print page 2 of the collection sorted by price, most expensive first
  collector collection --page 2 --sort price:desc --plain

  # Log in to the collection service
  collector login --username alice

  # Add a card found by name
  collector search "lightning bolt"
  collector card add 12345

  # Import a collection CSV
  collector import collection.csv

  # Show a deck grouped by card type
  collector deck show 7

  # Set configuration values
  collector config set server.url https://cards.example.com`

// newCardCmd creates the card command group.
func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "card", Short: "Owned card commands"}
	cmd.AddCommand(
		NewCardAddCmd(), NewCardEditCmd(), NewCardShowCmd(),
		NewCardPricesCmd(), NewCardRefreshCmd(),
	)
	return cmd
}

// newDeckCmd creates the deck command group.
func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "deck", Short: "Deck commands"}
	cmd.AddCommand(
		NewDeckListCmd(), NewDeckShowCmd(), NewDeckSaveCmd(),
		NewDeckDeleteCmd(), NewDeckRestoreCmd(), NewDeckImportCmd(),
		NewDeckArtCmd(), NewDeckRemoveCardCmd(),
	)
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(), NewConfigPathCmd(),
	)
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Lookup cache commands"}
	cmd.AddCommand(NewCacheStatsCmd(), NewCacheClearCmd(), NewCacheCleanupCmd())
	return cmd
}
