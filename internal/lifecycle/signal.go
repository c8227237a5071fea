package lifecycle

// Signal is a synchronous list of subscribers. Subscribers run in
// subscription order on the goroutine that calls Emit. A subscriber may
// cancel itself or others while being notified; the change applies from
// the next Emit.
//
// Signal is not safe for concurrent use.
type Signal[T any] struct {
	next uint64
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Signal[T]) Subscribe(fn func(T)) (cancel func()) {
	s.next++
	id := s.next
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Signal[T]) Emit(v T) {
	if len(s.subs) == 0 {
		return
	}
	subs := s.subs
	for _, sub := range subs {
		sub.fn(v)
	}
}

func (s *Signal[T]) Len() int { return len(s.subs) }
