package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yigit/persondata/internal/app/models"
)

const keyPrefix = "persondata:person"

// DefaultTTL applies when PersonCache is built with a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// PersonCache stores flattened person aggregates keyed by lookup and
// include options. Only found persons are cached.
type PersonCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewPersonCache creates a cache over client.
func NewPersonCache(client redis.Cmdable, ttl time.Duration) *PersonCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PersonCache{client: client, ttl: ttl}
}

// Key is the redis key an aggregate is stored under.
func Key(lookup models.PersonLookup, opts models.Options) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, lookup.Kind, lookup.Value, opts.Key())
}

// Get returns nil, nil on a miss.
func (c *PersonCache) Get(ctx context.Context, lookup models.PersonLookup, opts models.Options) (*models.Person, error) {
	raw, err := c.client.Get(ctx, Key(lookup, opts)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var data models.Flattened
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	p, err := models.ReconstructPerson(data)
	if err != nil {
		return nil, fmt.Errorf("cache reconstruct: %w", err)
	}
	return p, nil
}

// Set stores p for ttl.
func (c *PersonCache) Set(ctx context.Context, lookup models.PersonLookup, opts models.Options, p *models.Person) error {
	if p == nil {
		return nil
	}
	raw, err := json.Marshal(p.Flatten())
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, Key(lookup, opts), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
