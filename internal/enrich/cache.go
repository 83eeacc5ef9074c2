package enrich

import (
	"sync"

	"github.com/sells-group/mapleads-cli/internal/model"
)

// Cache memoizes website extraction per domain for the lifetime of a run.
// Entries are write-once: the first caller computes, everyone else waits and
// reads. Failed computations are not cached so a later card can retry the
// domain.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once   sync.Once
	social model.SocialLinks
	emails []string
	err    error
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// GetOrCompute returns the cached result for domain, computing it at most
// once across concurrent callers. When compute fails its partial result is
// returned to this caller and the slot is freed for a retry.
func (c *Cache) GetOrCompute(domain string, compute func() (model.SocialLinks, []string, error)) (model.SocialLinks, []string, error) {
	c.mu.Lock()
	e, ok := c.entries[domain]
	if !ok {
		e = &cacheEntry{}
		c.entries[domain] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.social, e.emails, e.err = compute()
		if e.err != nil {
			c.mu.Lock()
			delete(c.entries, domain)
			c.mu.Unlock()
		}
	})
	return e.social, e.emails, e.err
}

// Len reports how many domains are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
