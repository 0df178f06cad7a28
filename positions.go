package posbook

import (
	"iter"
	"maps"
	"slices"
)

// Positions is the set of positions of one portfolio, keyed by asset, with
// get-or-create semantics.
//
// It is not synchronized: a replay owns its Positions exclusively and callers
// accumulate one portfolio at a time.
type Positions struct {
	portfolio *Portfolio
	byAsset   map[string]*Position
}

// NewPositions creates an empty collection scoped to one portfolio.
func NewPositions(portfolio *Portfolio) *Positions {
	return &Positions{
		portfolio: portfolio,
		byAsset:   make(map[string]*Position),
	}
}

// Portfolio returns the portfolio this collection is scoped to.
func (ps *Positions) Portfolio() *Portfolio { return ps.portfolio }

// Get returns the position for an asset, creating an empty one seeded with
// the given as-of date on first reference.
func (ps *Positions) Get(assetID string, on Date) *Position {
	p, ok := ps.byAsset[assetID]
	if !ok {
		p = newPosition(ps.portfolio, assetID, on)
		ps.byAsset[assetID] = p
	}
	return p
}

// Find returns the position for an asset without creating it.
func (ps *Positions) Find(assetID string) (*Position, bool) {
	p, ok := ps.byAsset[assetID]
	return p, ok
}

// Len returns the number of positions.
func (ps *Positions) Len() int { return len(ps.byAsset) }

// All iterates positions in asset order, for deterministic reports.
func (ps *Positions) All() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		for _, id := range slices.Sorted(maps.Keys(ps.byAsset)) {
			if !yield(ps.byAsset[id]) {
				return
			}
		}
	}
}
