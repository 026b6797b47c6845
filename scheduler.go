package isobuild

import "time"

// View identifies a redraw target.
type View uint8

const (
	ViewGrid View = iota // layer editor panel
	ViewIso              // isometric preview panel
	viewCount
)

// String returns the view name.
func (v View) String() string {
	switch v {
	case ViewGrid:
		return "grid"
	case ViewIso:
		return "iso"
	default:
		return "view?"
	}
}

type pendingRedraw struct {
	pending bool
	due     time.Time
	fn      func()
}

// RedrawScheduler coalesces redraw requests. Each view has at most one
// pending redraw; scheduling while one is pending is a no-op. A redraw fires
// on the first Tick at or after its due time and reads whatever state is
// current at that moment.
type RedrawScheduler struct {
	delay time.Duration
	now   func() time.Time
	views [viewCount]pendingRedraw
	fired int
}

// NewRedrawScheduler creates a scheduler. now may be nil to use time.Now.
func NewRedrawScheduler(delay time.Duration, now func() time.Time) *RedrawScheduler {
	if now == nil {
		now = time.Now
	}
	return &RedrawScheduler{delay: delay, now: now}
}

// Register sets the callback run when v's redraw fires.
func (s *RedrawScheduler) Register(v View, fn func()) {
	if v < viewCount {
		s.views[v].fn = fn
	}
}

// Schedule requests a redraw of v. It returns false if one was already
// pending.
func (s *RedrawScheduler) Schedule(v View) bool {
	if v >= viewCount {
		return false
	}
	p := &s.views[v]
	if p.pending {
		return false
	}
	p.pending = true
	p.due = s.now().Add(s.delay)
	return true
}

// Pending reports whether v has a redraw scheduled.
func (s *RedrawScheduler) Pending(v View) bool {
	return v < viewCount && s.views[v].pending
}

// Tick fires every redraw due at now. The pending flag is cleared before the
// callback runs, so a callback may schedule again.
func (s *RedrawScheduler) Tick(now time.Time) int {
	n := 0
	for v := range s.views {
		p := &s.views[v]
		if !p.pending || now.Before(p.due) {
			continue
		}
		p.pending = false
		if p.fn != nil {
			p.fn()
		}
		n++
	}
	s.fired += n
	return n
}

// Flush fires every pending redraw regardless of due time.
func (s *RedrawScheduler) Flush() int {
	var latest time.Time
	for v := range s.views {
		if s.views[v].pending && s.views[v].due.After(latest) {
			latest = s.views[v].due
		}
	}
	return s.Tick(latest)
}

// Fired returns the total number of redraws run.
func (s *RedrawScheduler) Fired() int {
	return s.fired
}
