package ideas

import "sync"

// Cache is a bounded most-recent-first buffer of generated ideas. There is
// no deduplication and no persistence; contents live for the process only.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ideas    []*Idea
}

// NewCache creates a cache holding at most capacity ideas.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{capacity: capacity}
}

// Push inserts an idea at the head, dropping the oldest entry when the
// cache is full.
func (c *Cache) Push(idea *Idea) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ideas = append([]*Idea{idea}, c.ideas...)
	if len(c.ideas) > c.capacity {
		c.ideas = c.ideas[:c.capacity]
	}
}

// Latest returns up to limit ideas, most recent first.
func (c *Cache) Latest(limit int) []*Idea {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit > len(c.ideas) {
		limit = len(c.ideas)
	}
	if limit < 0 {
		limit = 0
	}

	out := make([]*Idea, limit)
	copy(out, c.ideas[:limit])
	return out
}

// Len returns the number of cached ideas.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ideas)
}
