package services

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/app/repositories/memory"
)

// countingStore wraps the memory store, counting person lookups and
// optionally failing them.
type countingStore struct {
	*memory.Store
	mu      sync.Mutex
	finds   int
	findErr error
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.NewSeeded()}
}

func (c *countingStore) FindPersons(ctx context.Context, lookup models.PersonLookup, limit int) ([]*models.Person, error) {
	c.mu.Lock()
	c.finds++
	err := c.findErr
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.Store.FindPersons(ctx, lookup, limit)
}

func (c *countingStore) findCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finds
}

// mapCache keeps flattened aggregates the way the redis cache does.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]models.Flattened
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]models.Flattened)}
}

func (m *mapCache) key(lookup models.PersonLookup, opts models.Options) string {
	return string(lookup.Kind) + ":" + lookup.Value + ":" + opts.Key()
}

func (m *mapCache) Get(_ context.Context, lookup models.PersonLookup, opts models.Options) (*models.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[m.key(lookup, opts)]
	if !ok {
		return nil, nil
	}
	return models.ReconstructPerson(data)
}

func (m *mapCache) Set(_ context.Context, lookup models.PersonLookup, opts models.Options, p *models.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.key(lookup, opts)] = p.Flatten()
	return nil
}

// fakeClock advances only when the sync loop sleeps.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Duration
	onSleep func(n int)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.sleeps = append(f.sleeps, d)
	n := len(f.sleeps)
	hook := f.onSleep
	f.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return nil
}

func (f *fakeClock) sleepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sleeps)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
