package lifecycle

import (
	"math"
	"sync"
	"sync/atomic"
)

// Lifespan decides when an entity leaves the engine. It expires when
// Expire is called or, if MaxAge is positive, once Age reaches MaxAge.
//
// A Lifespan is meant to be shared: bodies, joints and logics may hold the
// same pointer, and expiring it through any holder removes all of them at
// the next update boundary. Expire is safe to call from any goroutine.
type Lifespan struct {
	mu      sync.Mutex
	age     float64
	maxAge  float64
	expired atomic.Bool
}

// NewLifespan returns a Lifespan that only expires when told to.
func NewLifespan() *Lifespan { return &Lifespan{} }

// NewTimedLifespan returns a Lifespan that expires after maxAge seconds of
// simulated time. A non-positive maxAge never expires on its own.
func NewTimedLifespan(maxAge float64) *Lifespan {
	if math.IsNaN(maxAge) {
		maxAge = 0
	}
	return &Lifespan{maxAge: maxAge}
}

func (l *Lifespan) Expire() { l.expired.Store(true) }

func (l *Lifespan) IsExpired() bool {
	if l.expired.Load() {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxAge > 0 && l.age >= l.maxAge
}

func (l *Lifespan) Age() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.age
}

func (l *Lifespan) MaxAge() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxAge
}

// Advance ages the Lifespan by dt.
func (l *Lifespan) Advance(dt float64) {
	l.mu.Lock()
	l.age += dt
	l.mu.Unlock()
}

// Renew clears the expired flag and resets the age so the Lifespan can be
// reused after its holder was removed.
func (l *Lifespan) Renew() {
	l.mu.Lock()
	l.age = 0
	l.mu.Unlock()
	l.expired.Store(false)
}
