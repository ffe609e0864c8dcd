package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
)

// Fetch loads the value for key from s, falling back to fetch on a miss and
// storing the result. The bool reports a cache hit. A nil or disabled store
// always calls fetch. Cache read and write failures are logged and ignored.
func Fetch[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, bool, error) {
	log := zerolog.Ctx(ctx).With().Str("component", "cache").Logger()

	if s != nil && s.Enabled() {
		entry, err := s.Get(key)
		switch {
		case err == nil:
			var v T
			if jsonErr := json.Unmarshal(entry.Data, &v); jsonErr == nil {
				log.Debug().Str("operation", "fetch").Dur("age", entry.Age()).Msg("cache hit")
				return v, true, nil
			}
			log.Debug().Str("operation", "fetch").Msg("discarding undecodable cache entry")
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired):
		default:
			log.Warn().Err(err).Str("operation", "fetch").Msg("cache read failed")
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, false, err
	}

	if s != nil && s.Enabled() {
		data, jsonErr := json.Marshal(v)
		if jsonErr == nil {
			jsonErr = s.Set(key, data)
		}
		if jsonErr != nil {
			log.Warn().Err(jsonErr).Str("operation", "fetch").Msg("cache write failed")
		}
	}
	return v, false, nil
}
