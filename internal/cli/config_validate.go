package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/cardcollector/internal/config"
	"github.com/rshade/cardcollector/internal/pagination"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the global file, the project
overlay and COLLECTOR_* environment variables.

This includes:
- Schema version compatibility
- Server URL and timeout
- Search debounce and minimum length
- Default sort and output format`,
		Example: `  # Validate current configuration
  collector config validate

  # Validate and show detailed information
  collector config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, _, err := pagination.ParseSort(cfg.Collection.DefaultSort); err != nil {
		return fmt.Errorf("configuration validation failed: collection.default_sort: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.Path())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project directory: %s\n", dir)
	}
	cmd.Printf("  Server: %s (timeout %ds)\n", cfg.Server.URL, cfg.Server.TimeoutSeconds)
	cmd.Printf("  Default sort: %s\n", cfg.Collection.DefaultSort)
	cmd.Printf("  Search: debounce %dms, min length %d\n", cfg.Search.DebounceMS, cfg.Search.MinLength)
	if cfg.Cache.Enabled {
		cmd.Printf("  Cache: %s (ttl %ds)\n", cfg.CacheDir(), cfg.Cache.TTLSeconds)
	} else {
		cmd.Println("  Cache: disabled")
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
