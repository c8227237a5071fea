package lifecycle

import (
	"errors"
	"testing"
)

func TestLifespan(t *testing.T) {
	l := NewTimedLifespan(1)
	l.Advance(0.5)
	if l.IsExpired() {
		t.Error("should not expire before max age")
	}
	l.Advance(0.5)
	if !l.IsExpired() {
		t.Error("should expire at max age")
	}

	l.Renew()
	if l.IsExpired() || l.Age() != 0 {
		t.Error("renew should reset age")
	}

	immortal := NewLifespan()
	immortal.Advance(1e9)
	if immortal.IsExpired() {
		t.Error("lifespan without max age should not expire on its own")
	}
	immortal.Expire()
	if !immortal.IsExpired() {
		t.Error("manual expire should take effect")
	}
}

func TestAttachOwnership(t *testing.T) {
	var a Attachment
	h1, h2 := NewHandle(), NewHandle()
	if h1 == 0 || h1 == h2 {
		t.Fatalf("handles should be unique and non-zero: %d %d", h1, h2)
	}

	if err := a.Attach(h1, "body 1"); err != nil {
		t.Fatal(err)
	}

	for _, h := range []Handle{h1, h2} {
		err := a.Attach(h, "body 1")
		if !errors.Is(err, ErrAlreadyAttached) {
			t.Errorf("expected ErrAlreadyAttached, got %v", err)
		}
		var oe *OwnershipError
		if !errors.As(err, &oe) || oe.Owner != h1 {
			t.Errorf("expected owner %d in error, got %v", h1, err)
		}
	}

	if err := a.Release(h2); !errors.Is(err, ErrNotAttached) {
		t.Errorf("release by non-owner should fail, got %v", err)
	}
	if err := a.Release(h1); err != nil {
		t.Fatal(err)
	}
	if a.IsAttached() {
		t.Error("should be detached after release")
	}
	if err := a.Attach(h2, "body 1"); err != nil {
		t.Errorf("re-attach after release should succeed, got %v", err)
	}
}

func TestSignalCancelDuringEmit(t *testing.T) {
	var s Signal[int]
	var got []int

	var cancelSecond func()
	s.Subscribe(func(v int) {
		got = append(got, v)
		cancelSecond()
	})
	cancelSecond = s.Subscribe(func(v int) { got = append(got, v*10) })

	s.Emit(1)
	s.Emit(2)

	want := []int{1, 10, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 subscriber, got %d", s.Len())
	}
}

func TestEntityLifetime(t *testing.T) {
	var e Entity
	if e.Lifetime() == nil || e.Lifetime().IsExpired() {
		t.Fatal("zero entity should have a live lifetime")
	}

	changes := 0
	e.OnLifetimeChanged(func(*Lifespan) { changes++ })

	shared := NewLifespan()
	e.SetLifetime(shared)
	e.SetLifetime(shared)
	if changes != 1 {
		t.Errorf("expected 1 change notification, got %d", changes)
	}

	e.SetLifetime(nil)
	if e.Lifetime() == nil || e.Lifetime() == shared {
		t.Error("nil lifetime should be replaced with a fresh one")
	}
}
