package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cardcollector/internal/cache"
	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/config"
)

// Cache key prefixes.
const (
	cacheKeySets         = "sets"
	cacheKeyPriceHistory = "price_history"
)

// newClient returns a collection service client for the global config with
// the saved session installed. A missing session is not an error here; the
// service answers ErrUnauthorized when one is needed.
func newClient() (*collector.Client, error) {
	cfg := config.GetGlobalConfig()
	client, err := collector.New(cfg.Server.URL,
		collector.WithTimeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second),
		collector.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	session, err := config.LoadSession()
	switch {
	case err == nil:
		client.SetSession(session)
	case errors.Is(err, config.ErrNoSession):
	default:
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return client, nil
}

// openCache returns the lookup cache. When the cache cannot be opened it is
// disabled for this run and a warning is logged.
func openCache(cmd *cobra.Command) *cache.Store {
	cfg := config.GetGlobalConfig()
	store, err := cache.NewStore(cfg.CacheDir(), cfg.Cache.Enabled, cfg.Cache.TTLSeconds)
	if err != nil {
		logger.Warn().Ctx(cmd.Context()).Err(err).Str("operation", "open_cache").Msg("cache unavailable")
		store, _ = cache.NewStore("", false, 0)
	}
	return store
}
