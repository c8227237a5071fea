package broadphase

// SweepAndPrune sorts box endpoints along X and sweeps them with an active
// set. The endpoint order is kept between calls and repaired with an
// insertion sort, which is close to linear while bodies move little from
// one step to the next.
//
// A SweepAndPrune is not safe for concurrent use.
type SweepAndPrune struct {
	endpoints []endpoint
	active    []int
	index     map[uint64]int
}

type endpoint struct {
	id    uint64
	item  int
	value float64
	max   bool
}

func NewSweepAndPrune() *SweepAndPrune {
	return &SweepAndPrune{index: make(map[uint64]int)}
}

func (s *SweepAndPrune) Detect(items []Item, filter Filter) []Pair {
	if s.index == nil {
		s.index = make(map[uint64]int)
	}
	s.refresh(items)
	s.sort()

	var pairs []Pair
	s.active = s.active[:0]
	for _, e := range s.endpoints {
		if e.max {
			for k, idx := range s.active {
				if idx == e.item {
					last := len(s.active) - 1
					s.active[k] = s.active[last]
					s.active = s.active[:last]
					break
				}
			}
			continue
		}
		cur := items[e.item]
		for _, idx := range s.active {
			other := items[idx]
			if !cur.Bounds.Overlaps(other.Bounds) {
				continue
			}
			if allowed(filter, cur.Body, other.Body) {
				pairs = append(pairs, newPair(cur.Body, other.Body))
			}
		}
		s.active = append(s.active, e.item)
	}

	sortPairs(pairs)
	return pairs
}

// refresh drops endpoints of bodies that left, updates the values of the
// rest in place and appends endpoints for new bodies.
func (s *SweepAndPrune) refresh(items []Item) {
	clear(s.index)
	for i, it := range items {
		s.index[it.Body.ID()] = i
	}

	seen := make(map[uint64]bool, len(items))
	kept := s.endpoints[:0]
	for _, e := range s.endpoints {
		i, ok := s.index[e.id]
		if !ok {
			continue
		}
		e.item = i
		if e.max {
			e.value = items[i].Bounds.Max.X
		} else {
			e.value = items[i].Bounds.Min.X
			seen[e.id] = true
		}
		kept = append(kept, e)
	}
	s.endpoints = kept

	for i, it := range items {
		id := it.Body.ID()
		if seen[id] || s.index[id] != i {
			continue
		}
		s.endpoints = append(s.endpoints,
			endpoint{id: id, item: i, value: it.Bounds.Min.X},
			endpoint{id: id, item: i, value: it.Bounds.Max.X, max: true},
		)
	}
}

func (s *SweepAndPrune) sort() {
	e := s.endpoints
	for i := 1; i < len(e); i++ {
		x := e[i]
		j := i - 1
		for j >= 0 && less(x, e[j]) {
			e[j+1] = e[j]
			j--
		}
		e[j+1] = x
	}
}

// less orders by value, puts min endpoints before max endpoints at equal
// values so touching boxes are reported, then breaks ties by id.
func less(a, b endpoint) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	if a.max != b.max {
		return !a.max
	}
	if a.id != b.id {
		return a.id < b.id
	}
	return false
}

// Reset forgets the endpoint order kept from previous calls.
func (s *SweepAndPrune) Reset() {
	s.endpoints = s.endpoints[:0]
	s.active = s.active[:0]
	clear(s.index)
}
