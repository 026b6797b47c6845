package isobuild

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Event is one input event delivered to the editor. Positions are window
// coordinates.
type Event struct {
	Type   EventType
	X, Y   float64
	Button MouseButton
	// Delta is the scroll amount; positive zooms in.
	Delta float64
	// Width and Height carry the new window size for EventResize.
	Width, Height int
	Key           Key
	Mods          KeyModifiers
}

// Key identifies a key the editor responds to.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyQ
	KeyE
	KeyR
	KeyF
	KeyW
	KeyS
	KeyT
	KeyO
	KeyUp
	KeyDown
	KeyBracketLeft
	KeyBracketRight
	KeyDelete
	KeyF3
)

var keyNames = map[string]Key{
	"q":      KeyQ,
	"e":      KeyE,
	"r":      KeyR,
	"f":      KeyF,
	"w":      KeyW,
	"s":      KeyS,
	"t":      KeyT,
	"o":      KeyO,
	"up":     KeyUp,
	"down":   KeyDown,
	"[":      KeyBracketLeft,
	"]":      KeyBracketRight,
	"delete": KeyDelete,
	"f3":     KeyF3,
}

// ParseKey resolves a key name as used in scripts ("q", "up", "[", ...).
// A modifier prefix such as "ctrl+s" or "shift+delete" is also accepted.
func ParseKey(name string) (Key, KeyModifiers, bool) {
	var mods KeyModifiers
	parts := strings.Split(strings.ToLower(strings.TrimSpace(name)), "+")
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "shift":
			mods |= ModShift
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt":
			mods |= ModAlt
		case "meta", "cmd":
			mods |= ModMeta
		default:
			return KeyUnknown, 0, false
		}
	}
	k, ok := keyNames[parts[len(parts)-1]]
	return k, mods, ok
}

var ebitenKeys = [...]struct {
	ek  ebiten.Key
	key Key
}{
	{ebiten.KeyQ, KeyQ},
	{ebiten.KeyE, KeyE},
	{ebiten.KeyR, KeyR},
	{ebiten.KeyF, KeyF},
	{ebiten.KeyW, KeyW},
	{ebiten.KeyS, KeyS},
	{ebiten.KeyT, KeyT},
	{ebiten.KeyO, KeyO},
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyBracketLeft, KeyBracketLeft},
	{ebiten.KeyBracketRight, KeyBracketRight},
	{ebiten.KeyDelete, KeyDelete},
	{ebiten.KeyF3, KeyF3},
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// ebitenInput polls ebiten's input state once per tick and turns edges into
// events.
type ebitenInput struct {
	down    bool
	button  MouseButton
	lastX   float64
	lastY   float64
	inside  bool
	started bool
}

// poll emits the events observed since the previous call.
func (in *ebitenInput) poll(width, height int, emit func(Event)) {
	mods := readModifiers()
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	inside := mx >= 0 && my >= 0 && mx < width && my < height
	if in.started && in.inside && !inside && !in.down {
		emit(Event{Type: EventPointerLeave, X: x, Y: y, Mods: mods})
	}
	in.inside = inside

	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}

	switch {
	case pressed && !in.down:
		in.down, in.button = true, button
		emit(Event{Type: EventPointerDown, X: x, Y: y, Button: button, Mods: mods})
	case !pressed && in.down:
		in.down = false
		emit(Event{Type: EventPointerUp, X: x, Y: y, Button: in.button, Mods: mods})
	case x != in.lastX || y != in.lastY || !in.started:
		if inside || in.down {
			emit(Event{Type: EventPointerMove, X: x, Y: y, Button: in.button, Mods: mods})
		}
	}
	in.lastX, in.lastY = x, y
	in.started = true

	if _, wy := ebiten.Wheel(); wy != 0 {
		emit(Event{Type: EventScroll, X: x, Y: y, Delta: wy, Mods: mods})
	}

	for _, k := range ebitenKeys {
		if inpututil.IsKeyJustPressed(k.ek) {
			emit(Event{Type: EventKey, Key: k.key, X: x, Y: y, Mods: mods})
		}
	}
}
