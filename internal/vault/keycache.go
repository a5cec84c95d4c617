package vault

import "sync"

// KeyCache is the process-wide cache of validated API keys, held outside the
// vault so validation doesn't hit the encrypted file on every request.
type KeyCache struct {
	mu      sync.Mutex
	entries map[string]bool
}

func NewKeyCache() *KeyCache {
	return &KeyCache{entries: make(map[string]bool)}
}

// MarkValidated records a validation outcome for a key fingerprint.
func (c *KeyCache) MarkValidated(fingerprint string, valid bool) {
	c.mu.Lock()
	c.entries[fingerprint] = valid
	c.mu.Unlock()
}

// Lookup returns the cached outcome for a fingerprint.
func (c *KeyCache) Lookup(fingerprint string) (valid, cached bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	valid, cached = c.entries[fingerprint]
	return valid, cached
}

// ClearAll discards every cached validation.
func (c *KeyCache) ClearAll() error {
	c.mu.Lock()
	c.entries = make(map[string]bool)
	c.mu.Unlock()
	return nil
}

// Len reports the number of cached entries.
func (c *KeyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
