// Package cache keeps an optional Redis copy of the encoded movie
// listing. When no Redis server is configured or reachable, every
// lookup is a miss and the server serves straight from the database.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	movieListKeyPrefix  = "ticketline:movies:list:"
	movieListVersionKey = "ticketline:movies:version"
)

// MovieList caches one value: the wire-encoded list_movies response.
// Entries are keyed by a catalog version that every mutation bumps, so
// a listing filled from a pre-mutation read lands under a version no
// reader looks up anymore; stale entries age out via TTL. A nil
// *MovieList or a nil client degrades to cache-off behaviour.
type MovieList struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMovieList wraps a Redis client. client may be nil.
func NewMovieList(client *redis.Client, ttl time.Duration) *MovieList {
	return &MovieList{client: client, ttl: ttl}
}

// Get returns the cached listing payload for the current catalog
// version. On a miss it also returns that version, which the caller
// passes back to Set after loading from the database.
func (c *MovieList) Get(ctx context.Context) (payload []byte, version string, ok bool) {
	if c == nil || c.client == nil {
		return nil, "", false
	}
	version, err := c.client.Get(ctx, movieListVersionKey).Result()
	if err == redis.Nil {
		version = "0"
	} else if err != nil {
		return nil, "", false
	}
	payload, err = c.client.Get(ctx, movieListKeyPrefix+version).Bytes()
	if err != nil {
		return nil, version, false
	}
	return payload, version, true
}

// Set stores the listing payload under the version observed before the
// database read. If a mutation bumped the version in between, the entry
// is written to a key nobody reads. Errors are ignored; the cache is an
// optimization, never an authority.
func (c *MovieList) Set(ctx context.Context, version string, payload []byte) {
	if c == nil || c.client == nil || version == "" {
		return
	}
	_ = c.client.Set(ctx, movieListKeyPrefix+version, payload, c.ttl).Err()
}

// Invalidate bumps the catalog version after a mutation or a committed
// sale, orphaning every cached listing at once.
func (c *MovieList) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, movieListVersionKey).Err()
}
