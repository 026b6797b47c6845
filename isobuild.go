package isobuild

import "fmt"

// Vec2 is a 2D vector used for screen positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the left/top edge are inside; points on the right/bottom edge are
// not, so adjacent panels never both claim a pointer.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Size returns the rectangle's width and height as a Vec2.
func (r Rect) Size() Vec2 {
	return Vec2{r.Width, r.Height}
}

// Coord is a grid cell. X and Z are the horizontal axes, Y is the vertical
// layer. Valid cells satisfy 0 <= X, Z, Y < grid size.
type Coord struct {
	X, Z, Y int
}

// String returns the persisted key form "x,z,y".
func (c Coord) String() string {
	return fmt.Sprintf("%d,%d,%d", c.X, c.Z, c.Y)
}

// InBounds reports whether every component lies in [0, size).
func (c Coord) InBounds(size int) bool {
	return c.X >= 0 && c.X < size &&
		c.Z >= 0 && c.Z < size &&
		c.Y >= 0 && c.Y < size
}

// Face identifies one of the three visible faces of an isometric voxel.
type Face uint8

const (
	FaceTop   Face = iota // diamond on top of the voxel
	FaceLeft              // left parallelogram
	FaceRight             // right parallelogram
)

// faceDrawOrder is the back-to-front order of faces within one voxel.
var faceDrawOrder = [3]Face{FaceLeft, FaceRight, FaceTop}

// String returns the lower-case face name.
func (f Face) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	default:
		return fmt.Sprintf("face(%d)", uint8(f))
	}
}

// Shade factors applied per face. FactorNone leaves a color unchanged.
const (
	FactorTop   = 1.2
	FactorLeft  = 0.8
	FactorRight = 0.6
	FactorNone  = 1.0
)

// ShadeFactor returns the brightness factor for the face.
func (f Face) ShadeFactor() float64 {
	switch f {
	case FaceTop:
		return FactorTop
	case FaceLeft:
		return FactorLeft
	case FaceRight:
		return FactorRight
	default:
		return FactorNone
	}
}

// Rotation is a yaw step of the isometric view, always one of 0, 90, 180 or
// 270 degrees.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// normalizeRotation maps any multiple of 90 into [0, 360).
func normalizeRotation(deg int) Rotation {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return Rotation(deg - deg%90)
}

// Left returns the rotation 90 degrees counter-clockwise from r.
func (r Rotation) Left() Rotation {
	return normalizeRotation(int(r) - 90)
}

// Right returns the rotation 90 degrees clockwise from r.
func (r Rotation) Right() Rotation {
	return normalizeRotation(int(r) + 90)
}

// EventType identifies a kind of input event delivered to the editor.
type EventType uint8

const (
	EventPointerDown EventType = iota // fires when a pointer button is pressed
	EventPointerUp                    // fires when a pointer button is released
	EventPointerMove                  // fires when the pointer moves (button held or not)
	EventPointerLeave                 // fires when the pointer leaves the window
	EventScroll                       // fires on wheel movement
	EventResize                       // fires when the window size changes
	EventKey                          // fires when a key is pressed
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
