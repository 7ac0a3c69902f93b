package aggregate

import (
	"context"
	"sync"

	"github.com/teemow/multical/internal/calendar"
)

// DialFunc opens an authenticated client for one account.
type DialFunc func(ctx context.Context, account string) (*calendar.Client, error)

// ConnectionCache holds at most one client per account for the lifetime of
// the process. Creation is serialized per account; a failed creation is not
// remembered, so the next caller dials again.
type ConnectionCache struct {
	dial DialFunc

	mu      sync.Mutex
	entries map[string]*connEntry
}

type connEntry struct {
	mu     sync.Mutex
	client *calendar.Client
}

// NewConnectionCache returns an empty cache that creates clients with dial.
func NewConnectionCache(dial DialFunc) *ConnectionCache {
	return &ConnectionCache{
		dial:    dial,
		entries: make(map[string]*connEntry),
	}
}

func (c *ConnectionCache) entry(account string) *connEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[account]
	if !ok {
		e = &connEntry{}
		c.entries[account] = e
	}
	return e
}

// Get returns the cached client for account, creating it if absent.
func (c *ConnectionCache) Get(ctx context.Context, account string) (*calendar.Client, error) {
	e := c.entry(account)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client, nil
	}

	client, err := c.dial(ctx, account)
	if err != nil {
		return nil, err
	}
	e.client = client
	return client, nil
}

// Forget drops the cached client for account. Connections are otherwise
// kept for the life of the process; the aggregator only forgets one after
// the account's refresh token was rejected, so a long-running server picks
// up a re-authorized account.
func (c *ConnectionCache) Forget(account string) {
	c.mu.Lock()
	delete(c.entries, account)
	c.mu.Unlock()
}
