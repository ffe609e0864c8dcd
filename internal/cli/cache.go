package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/cardcollector/internal/cache"
	"github.com/rshade/cardcollector/internal/config"
)

// openCacheStrict opens the configured cache and fails when it is disabled,
// for the commands that manage it.
func openCacheStrict() (*cache.Store, error) {
	cfg := config.GetGlobalConfig()
	if !cfg.Cache.Enabled {
		return nil, fmt.Errorf("%w: enable it with \"collector config set cache.enabled true\"", cache.ErrDisabled)
	}
	return cache.NewStore(cfg.CacheDir(), true, cfg.Cache.TTLSeconds)
}

// NewCacheStatsCmd creates the cache stats command.
func NewCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lookup cache usage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheStrict()
			if err != nil {
				return err
			}
			st, err := store.Stats()
			if err != nil {
				return err
			}
			if format := outputFormat(); format != OutputTable {
				return writeStructured(cmd.OutOrStdout(), format, st)
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Directory:\t%s\n", st.Directory)
			fmt.Fprintf(tw, "Entries:\t%s\n", formatCount(st.Entries))
			fmt.Fprintf(tw, "Expired:\t%s\n", formatCount(st.Expired))
			fmt.Fprintf(tw, "Size:\t%s bytes\n", formatCount(int(st.Bytes)))
			fmt.Fprintf(tw, "TTL:\t%ds\n", store.TTL())
			return tw.Flush()
		},
	}
}

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached lookup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sweepCache(cmd, (*cache.Store).Clear, "Removed %d cached entries\n")
		},
	}
}

// NewCacheCleanupCmd creates the cache cleanup command.
func NewCacheCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired cached lookups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sweepCache(cmd, (*cache.Store).Prune, "Removed %d expired entries\n")
		},
	}
}

func sweepCache(cmd *cobra.Command, sweep func(*cache.Store) (int, error), msg string) error {
	store, err := openCacheStrict()
	if err != nil {
		return err
	}
	n, err := sweep(store)
	if err != nil && !errors.Is(err, cache.ErrDisabled) {
		return err
	}
	cmd.Printf(msg, n)
	return nil
}
