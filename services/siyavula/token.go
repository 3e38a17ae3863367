package siyavula

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// tokenCell holds the process-wide client token. Empty means absent.
type tokenCell struct {
	mu    sync.RWMutex
	token string
	group singleflight.Group // coalesces concurrent fetches
}

func (c *tokenCell) get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *tokenCell) set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// clear drops `token` only if it is still the current one.
func (c *tokenCell) clear(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "" || c.token != token {
		return false
	}
	c.token = ""
	return true
}
