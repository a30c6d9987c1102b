package bot

import (
	"sync"

	"github.com/marketbrief/ideawatch/internal/metrics"
)

// Registry is the in-memory subscriber set. Contents live for the process
// only.
type Registry struct {
	mu    sync.Mutex
	chats map[int64]struct{}
}

// NewRegistry creates an empty subscriber registry.
func NewRegistry() *Registry {
	return &Registry{chats: make(map[int64]struct{})}
}

// Add subscribes a chat. Returns false if it was already subscribed.
func (r *Registry) Add(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[chatID]; ok {
		return false
	}
	r.chats[chatID] = struct{}{}
	metrics.Subscribers.Set(float64(len(r.chats)))
	return true
}

// Remove unsubscribes a chat. Returns false if it was not subscribed.
func (r *Registry) Remove(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[chatID]; !ok {
		return false
	}
	delete(r.chats, chatID)
	metrics.Subscribers.Set(float64(len(r.chats)))
	return true
}

// Snapshot returns the current subscribers for iteration outside the lock.
func (r *Registry) Snapshot() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, 0, len(r.chats))
	for id := range r.chats {
		out = append(out, id)
	}
	return out
}

// Count returns the number of subscribers.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}
