package isobuild

import (
	"errors"
	"testing"
)

func TestSolvePerspectiveMapsCorners(t *testing.T) {
	tests := []struct {
		name string
		dst  [4]Vec2
	}{
		{"identity", unitSquare},
		{"scale", [4]Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}},
		{"diamond", [4]Vec2{{8, 0}, {16, 4}, {8, 8}, {0, 4}}},
		{"keystone", [4]Vec2{{2, 0}, {8, 0}, {10, 10}, {0, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := SolvePerspective(unitSquare, tt.dst)
			if err != nil {
				t.Fatalf("SolvePerspective: %v", err)
			}
			for i, s := range unitSquare {
				x, y := p.Apply(s.X, s.Y)
				if !approxEqual(x, tt.dst[i].X, 1e-6) || !approxEqual(y, tt.dst[i].Y, 1e-6) {
					t.Errorf("corner %d = (%v,%v), want %v", i, x, y, tt.dst[i])
				}
			}
		})
	}
}

func TestSolvePerspectiveSingular(t *testing.T) {
	collinear := [4]Vec2{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	if _, err := SolvePerspective(collinear, unitSquare); !errors.Is(err, ErrSingularSystem) {
		t.Errorf("err = %v, want ErrSingularSystem", err)
	}
	same := [4]Vec2{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	if _, err := SolvePerspective(same, unitSquare); !errors.Is(err, ErrSingularSystem) {
		t.Errorf("err = %v, want ErrSingularSystem", err)
	}
}

// --- Face quads ---

func TestFaceQuad(t *testing.T) {
	tests := []struct {
		face Face
		want [4]Vec2
	}{
		{FaceTop, [4]Vec2{{8, 0}, {16, 4}, {8, 8}, {0, 4}}},
		{FaceLeft, [4]Vec2{{0, 4}, {8, 8}, {8, 16}, {0, 12}}},
		{FaceRight, [4]Vec2{{8, 8}, {16, 4}, {16, 12}, {8, 16}}},
	}
	for _, tt := range tests {
		got, err := FaceQuad(tt.face, 16)
		if err != nil {
			t.Fatalf("%s: %v", tt.face, err)
		}
		if got != tt.want {
			t.Errorf("%s = %v, want %v", tt.face, got, tt.want)
		}
	}
}

func TestFaceQuadUnknownFace(t *testing.T) {
	if _, err := FaceQuad(Face(7), 16); !errors.Is(err, ErrUnknownFace) {
		t.Errorf("err = %v, want ErrUnknownFace", err)
	}
	if _, err := faceInverse(Face(9), 16); !errors.Is(err, ErrUnknownFace) {
		t.Errorf("faceInverse err = %v, want ErrUnknownFace", err)
	}
}

func TestFaceQuadAtMatchesFaceQuad(t *testing.T) {
	const size = 32
	anchor := Vec2{X: 100, Y: 50}
	for _, face := range faceDrawOrder {
		local, _ := FaceQuad(face, size)
		at := FaceQuadAt(face, anchor, size)
		for i := range local {
			want := Vec2{local[i].X - size/2 + anchor.X, local[i].Y + anchor.Y}
			if at[i] != want {
				t.Errorf("%s corner %d = %v, want %v", face, i, at[i], want)
			}
		}
	}
}

func TestFaceInverseHitsUnitSquare(t *testing.T) {
	for _, face := range faceDrawOrder {
		quad, _ := FaceQuad(face, 64)
		inv, err := faceInverse(face, 64)
		if err != nil {
			t.Fatalf("%s: %v", face, err)
		}
		for i, q := range quad {
			u, v := inv.Apply(q.X, q.Y)
			if !approxEqual(u, unitSquare[i].X, 1e-6) || !approxEqual(v, unitSquare[i].Y, 1e-6) {
				t.Errorf("%s corner %d -> (%v,%v), want %v", face, i, u, v, unitSquare[i])
			}
		}
	}
}
