// Package ideas contains the idea synthesis core: one synthesizer per
// signal source, the fallback-chain orchestrator, and the recent-ideas
// cache.
package ideas

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category tags carried by synthesized ideas.
const (
	CategoryNews     = "News-based"
	CategoryMacro    = "Macro (reframed)"
	CategoryPolitics = "Politics (reframed)"
	CategoryCrypto   = "Crypto (price-based)"
	CategoryFallback = "Fallback"
)

// Idea is one synthesized prediction-market question draft. Ideas are
// immutable once returned by a synthesizer; Title and Resolution are always
// non-empty.
type Idea struct {
	ID          string
	Category    string
	Title       string
	Resolution  string
	Notes       string
	Expiry      *time.Time
	SourceLinks []string
}

// Synthesizer turns one signal source into at most one Idea. A nil return
// means the source had no usable input and the caller should try the next
// source in the chain.
type Synthesizer interface {
	Synthesize(ctx context.Context) *Idea
}

func newID() string {
	return uuid.NewString()
}
