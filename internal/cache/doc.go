// Package cache keeps slow-changing service lookups on disk with a TTL.
//
// The set list behind the collection set filter and per-card price history
// change at most daily, so the CLI stores them as JSON files under
// ~/.cardcollector/cache/ and skips the round trip while they are fresh.
// Keys are scoped by service URL so two servers never share entries.
package cache
