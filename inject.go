package isobuild

// InjectPress queues a left-button press at the given window coordinates.
// Queued events are consumed one per Update, in place of real input.
func (e *Editor) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, Event{Type: EventPointerDown, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectMove queues a pointer move. Between InjectPress and InjectRelease
// it continues a drag.
func (e *Editor) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, Event{Type: EventPointerMove, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectRelease queues a left-button release.
func (e *Editor) InjectRelease(x, y float64) {
	e.injectQueue = append(e.injectQueue, Event{Type: EventPointerUp, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same position.
// Consumes two frames.
func (e *Editor) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves, a move onto (toX, toY) and a release there, so the
// end point is painted too. Minimum frames is 2.
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectMove(toX, toY)
	e.InjectRelease(toX, toY)
}

// InjectScroll queues a wheel event at (x, y). Positive delta zooms in.
func (e *Editor) InjectScroll(x, y, delta float64) {
	e.injectQueue = append(e.injectQueue, Event{Type: EventScroll, X: x, Y: y, Delta: delta})
}

// InjectKey queues a key press with the given modifiers.
func (e *Editor) InjectKey(k Key, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, Event{Type: EventKey, Key: k, Mods: mods})
}

// Pending returns the number of queued synthetic events.
func (e *Editor) Pending() int {
	return len(e.injectQueue)
}

// processInjected pops one queued event and applies it. It reports whether
// an event was consumed, in which case real input is skipped this frame.
func (e *Editor) processInjected() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	ev := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	e.HandleEvent(ev)
	return true
}
