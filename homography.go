package isobuild

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrSingularSystem is returned when four correspondences do not define
	// a projective transform (degenerate quadrilateral).
	ErrSingularSystem = errors.New("isobuild: singular projective system")
	// ErrUnknownFace is returned for a Face outside top, left and right.
	ErrUnknownFace = errors.New("isobuild: unknown face")
)

// FaceQuad returns the image-space corners of a face inside a size x size
// canvas, in the order the unit-square corners (0,0), (1,0), (1,1), (0,1)
// map to. The top face is a diamond in the upper half; left and right are
// parallelograms that share the diamond's lower edges and the vertical
// center line.
func FaceQuad(face Face, size int) ([4]Vec2, error) {
	s := float64(size)
	x := s / 2
	h := s / 2
	switch face {
	case FaceTop:
		return [4]Vec2{
			{x, 0},
			{x + s/2, s / 4},
			{x, s / 2},
			{x - s/2, s / 4},
		}, nil
	case FaceLeft:
		return [4]Vec2{
			{x - s/2, s / 4},
			{x, s / 2},
			{x, s/2 + h},
			{x - s/2, s/4 + h},
		}, nil
	case FaceRight:
		return [4]Vec2{
			{x, s / 2},
			{x + s/2, s / 4},
			{x + s/2, s/4 + h},
			{x, s/2 + h},
		}, nil
	default:
		return [4]Vec2{}, fmt.Errorf("%w: %d", ErrUnknownFace, uint8(face))
	}
}

// FaceQuadAt translates FaceQuad so that the top vertex of the voxel sits at
// anchor. The quad size equals the on-screen tile width.
func FaceQuadAt(face Face, anchor Vec2, tileWidth float64) [4]Vec2 {
	s := tileWidth
	x, y := anchor.X, anchor.Y
	h := s / 2
	switch face {
	case FaceLeft:
		return [4]Vec2{{x - s/2, y + s/4}, {x, y + s/2}, {x, y + s/2 + h}, {x - s/2, y + s/4 + h}}
	case FaceRight:
		return [4]Vec2{{x, y + s/2}, {x + s/2, y + s/4}, {x + s/2, y + s/4 + h}, {x, y + s/2 + h}}
	default:
		return [4]Vec2{{x, y}, {x + s/2, y + s/4}, {x, y + s/2}, {x - s/2, y + s/4}}
	}
}

// Perspective holds the eight coefficients of a planar projective transform:
//
//	x' = (a*u + b*v + c) / (g*u + h*v + 1)
//	y' = (d*u + e*v + f) / (g*u + h*v + 1)
type Perspective [8]float64

// Apply maps (u, v) through the transform.
func (p Perspective) Apply(u, v float64) (x, y float64) {
	w := p[6]*u + p[7]*v + 1
	return (p[0]*u + p[1]*v + p[2]) / w, (p[3]*u + p[4]*v + p[5]) / w
}

// SolvePerspective solves for the transform taking src[i] to dst[i] for four
// correspondences. It builds the 8x8 linear system directly and solves it by
// Gaussian elimination with partial pivoting.
func SolvePerspective(src, dst [4]Vec2) (Perspective, error) {
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		u, v := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		a[2*i] = [9]float64{u, v, 1, 0, 0, 0, -u * x, -v * x, x}
		a[2*i+1] = [9]float64{0, 0, 0, u, v, 1, -u * y, -v * y, y}
	}

	const eps = 1e-12
	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < eps {
			return Perspective{}, ErrSingularSystem
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := col + 1; r < 8; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for k := col; k < 9; k++ {
				a[r][k] -= f * a[col][k]
			}
		}
	}

	var p Perspective
	for r := 7; r >= 0; r-- {
		sum := a[r][8]
		for k := r + 1; k < 8; k++ {
			sum -= a[r][k] * p[k]
		}
		p[r] = sum / a[r][r]
	}
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Perspective{}, ErrSingularSystem
		}
	}
	return p, nil
}

var unitSquare = [4]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// faceInverse returns the transform mapping output pixel coordinates of a
// face canvas back into the unit square of the source texture.
func faceInverse(face Face, size int) (Perspective, error) {
	quad, err := FaceQuad(face, size)
	if err != nil {
		return Perspective{}, err
	}
	return SolvePerspective(quad, unitSquare)
}
