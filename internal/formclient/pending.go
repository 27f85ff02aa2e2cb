package formclient

import (
	"sync"

	"github.com/spellbe/portal-api/internal/capacity"
)

// PendingAdjustments remembers the category of the most recent accepted
// submission so the next counter display can include it before the backend
// catches up. Apply consumes the marker.
type PendingAdjustments struct {
	mu      sync.Mutex
	pending capacity.Category
}

// Record replaces any marker not yet applied.
func (p *PendingAdjustments) Record(cat capacity.Category) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = cat
}

// Apply adds the pending submission to counts and clears the marker.
func (p *PendingAdjustments) Apply(counts capacity.Counts) capacity.Counts {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.pending {
	case capacity.Students:
		counts.Students++
	case capacity.Volunteers:
		counts.Volunteers++
	}
	p.pending = ""
	return counts
}
