package broadphase

import (
	"cmp"
	"slices"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/geometry"
)

// Item is a body with the box it occupies for this step. The engine passes
// boxes swept by the body's motion, not the bare shape bounds.
type Item struct {
	Body   *body.Body
	Bounds geometry.BoundingRectangle
}

// Pair is a candidate pair with A.ID() < B.ID().
type Pair struct {
	A, B *body.Body
}

func newPair(a, b *body.Body) Pair {
	if b.ID() < a.ID() {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Filter reports whether two bodies may collide at all. A nil Filter
// allows every pair.
type Filter func(a, b *body.Body) bool

// Detector produces every pair of items whose boxes overlap and which the
// filter allows, sorted by (A.ID, B.ID).
type Detector interface {
	Detect(items []Item, filter Filter) []Pair
}

func sortPairs(pairs []Pair) {
	slices.SortFunc(pairs, func(p, q Pair) int {
		if c := cmp.Compare(p.A.ID(), q.A.ID()); c != 0 {
			return c
		}
		return cmp.Compare(p.B.ID(), q.B.ID())
	})
}

func allowed(filter Filter, a, b *body.Body) bool {
	return filter == nil || filter(a, b)
}

// BruteForce tests every pair. It is the reference the sweep is checked
// against.
type BruteForce struct{}

func (BruteForce) Detect(items []Item, filter Filter) []Pair {
	var pairs []Pair
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			if a.Body == b.Body || !a.Bounds.Overlaps(b.Bounds) {
				continue
			}
			if allowed(filter, a.Body, b.Body) {
				pairs = append(pairs, newPair(a.Body, b.Body))
			}
		}
	}
	sortPairs(pairs)
	return pairs
}
