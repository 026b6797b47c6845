package isobuild

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for scheduler tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSchedulerCoalesces(t *testing.T) {
	clock := newFakeClock()
	s := NewRedrawScheduler(16*time.Millisecond, clock.Now)
	runs := 0
	s.Register(ViewIso, func() { runs++ })

	if !s.Schedule(ViewIso) {
		t.Fatal("first Schedule returned false")
	}
	for i := 0; i < 10; i++ {
		if s.Schedule(ViewIso) {
			t.Fatalf("Schedule %d while pending returned true", i)
		}
	}
	if !s.Pending(ViewIso) || s.Pending(ViewGrid) {
		t.Error("Pending state wrong")
	}

	clock.Advance(10 * time.Millisecond)
	if n := s.Tick(clock.Now()); n != 0 {
		t.Errorf("Tick before due fired %d", n)
	}
	clock.Advance(6 * time.Millisecond)
	if n := s.Tick(clock.Now()); n != 1 {
		t.Errorf("Tick at due fired %d, want 1", n)
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if s.Pending(ViewIso) {
		t.Error("still pending after firing")
	}

	clock.Advance(time.Second)
	if n := s.Tick(clock.Now()); n != 0 {
		t.Errorf("idle Tick fired %d", n)
	}
}

func TestSchedulerReadsCurrentState(t *testing.T) {
	clock := newFakeClock()
	s := NewRedrawScheduler(16*time.Millisecond, clock.Now)
	state := 0
	seen := -1
	s.Register(ViewGrid, func() { seen = state })

	for state = 1; state <= 5; state++ {
		s.Schedule(ViewGrid)
	}
	state = 42
	clock.Advance(16 * time.Millisecond)
	s.Tick(clock.Now())
	if seen != 42 {
		t.Errorf("seen = %d, want 42", seen)
	}
}

func TestSchedulerViewsIndependent(t *testing.T) {
	clock := newFakeClock()
	s := NewRedrawScheduler(16*time.Millisecond, clock.Now)
	var grid, iso int
	s.Register(ViewGrid, func() { grid++ })
	s.Register(ViewIso, func() { iso++ })

	s.Schedule(ViewGrid)
	clock.Advance(8 * time.Millisecond)
	s.Schedule(ViewIso)
	clock.Advance(8 * time.Millisecond)
	s.Tick(clock.Now())
	if grid != 1 || iso != 0 {
		t.Errorf("grid=%d iso=%d, want 1 and 0", grid, iso)
	}
	clock.Advance(8 * time.Millisecond)
	s.Tick(clock.Now())
	if iso != 1 {
		t.Errorf("iso = %d, want 1", iso)
	}
	if s.Fired() != 2 {
		t.Errorf("Fired = %d, want 2", s.Fired())
	}
}

func TestSchedulerCallbackMayReschedule(t *testing.T) {
	clock := newFakeClock()
	s := NewRedrawScheduler(16*time.Millisecond, clock.Now)
	runs := 0
	s.Register(ViewIso, func() {
		runs++
		if runs == 1 {
			s.Schedule(ViewIso)
		}
	})
	s.Schedule(ViewIso)
	clock.Advance(16 * time.Millisecond)
	s.Tick(clock.Now())
	if !s.Pending(ViewIso) {
		t.Fatal("reschedule from callback was dropped")
	}
	clock.Advance(16 * time.Millisecond)
	s.Tick(clock.Now())
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestSchedulerFlush(t *testing.T) {
	clock := newFakeClock()
	s := NewRedrawScheduler(time.Hour, clock.Now)
	runs := 0
	s.Register(ViewGrid, func() { runs++ })
	s.Register(ViewIso, func() { runs++ })
	s.Schedule(ViewGrid)
	s.Schedule(ViewIso)
	if n := s.Flush(); n != 2 {
		t.Errorf("Flush = %d, want 2", n)
	}
	if s.Flush() != 0 {
		t.Error("second Flush fired again")
	}
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestSchedulerUnknownView(t *testing.T) {
	s := NewRedrawScheduler(0, nil)
	if s.Schedule(View(9)) {
		t.Error("Schedule of unknown view returned true")
	}
	if View(9).String() != "view?" || ViewIso.String() != "iso" {
		t.Error("View.String mismatch")
	}
}
