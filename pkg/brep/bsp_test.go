package brep

import (
	"math"
	"testing"
)

// flatPatch is a z=0 plane with unit tangents: the simplest possible
// Surface, enough to exercise uv classification without a host geometry
// library behind it.
type flatPatch struct{}

func (flatPatch) PointAt(u, v float64) Vec3  { return Vec3{X: u, Y: v} }
func (flatPatch) NormalAt(u, v float64) Vec3 { return Vec3{Z: 1} }
func (flatPatch) TangentsAt(u, v float64) (Vec3, Vec3) {
	return Vec3{X: 1}, Vec3{Y: 1}
}
func (flatPatch) ClosestPointTo(p Vec3, hint *UV) (UV, bool) {
	return UV{U: p.X, V: p.Y}, true
}
func (flatPatch) PointOnSurfaces(o1, o2 Surface, uv *UV) bool { return false }

// unitSquareBsp builds a BSP from the CCW unit-square trim loop
// (0,0) -> (1,0) -> (1,1) -> (0,1) -> (0,0).
func unitSquareBsp() *ClassifyingBsp {
	face := &Face{Surface: flatPatch{}}
	edges := []UVEdge{
		{A: UV{0, 0}, B: UV{1, 0}},
		{A: UV{1, 0}, B: UV{1, 1}},
		{A: UV{1, 1}, B: UV{0, 1}},
		{A: UV{0, 1}, B: UV{0, 0}},
	}
	return BuildClassifyingBsp(face, edges)
}

func TestClassifyPoint(t *testing.T) {
	bsp := unitSquareBsp()
	tests := []struct {
		name string
		p    UV
		want BspClass
	}{
		{"center", UV{0.5, 0.5}, BspInside},
		{"near corner inside", UV{0.1, 0.9}, BspInside},
		{"right of square", UV{1.5, 0.5}, BspOutside},
		{"below square", UV{0.5, -0.5}, BspOutside},
		{"far corner outside", UV{-0.2, -0.2}, BspOutside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bsp.ClassifyPoint(tt.p, tt.p); got != tt.want {
				t.Errorf("ClassifyPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestClassifyPointOnEdge(t *testing.T) {
	bsp := unitSquareBsp()

	// Collinear hint in the loop's own direction.
	if got := bsp.ClassifyPoint(UV{0.5, 0}, UV{0.8, 0}); got != BspEdgeParallel {
		t.Errorf("parallel hint: got %v, want EDGE_PARALLEL", got)
	}
	// Collinear hint against the loop's direction.
	if got := bsp.ClassifyPoint(UV{0.5, 0}, UV{0.2, 0}); got != BspEdgeAntiparallel {
		t.Errorf("antiparallel hint: got %v, want EDGE_ANTIPARALLEL", got)
	}
	// Non-collinear hint.
	if got := bsp.ClassifyPoint(UV{0.5, 0}, UV{0.5, 0.5}); got != BspEdgeOther {
		t.Errorf("transverse hint: got %v, want EDGE_OTHER", got)
	}
}

func TestClassifyEdge(t *testing.T) {
	bsp := unitSquareBsp()
	tests := []struct {
		name string
		a, b UV
		want BspClass
	}{
		{"interior edge", UV{0.2, 0.5}, UV{0.8, 0.5}, BspInside},
		{"exterior edge", UV{0.2, -0.5}, UV{0.8, -0.5}, BspOutside},
		{"along bottom edge", UV{0.2, 0}, UV{0.8, 0}, BspEdgeParallel},
		{"against bottom edge", UV{0.8, 0}, UV{0.2, 0}, BspEdgeAntiparallel},
		{"along left edge downward", UV{0, 0.8}, UV{0, 0.2}, BspEdgeParallel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bsp.ClassifyEdge(tt.a, tt.b); got != tt.want {
				t.Errorf("ClassifyEdge(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// Reversing an edge swaps EDGE_PARALLEL and EDGE_ANTIPARALLEL and leaves
// every other class unchanged.
func TestClassifyEdgeReversalSymmetry(t *testing.T) {
	bsp := unitSquareBsp()
	edges := [][2]UV{
		{{0.2, 0.5}, {0.8, 0.5}},
		{{0.2, -0.5}, {0.8, -0.5}},
		{{0.2, 0}, {0.8, 0}},
		{{1, 0.2}, {1, 0.8}},
		{{0.3, 1}, {0.7, 1}},
	}
	swap := func(c BspClass) BspClass {
		switch c {
		case BspEdgeParallel:
			return BspEdgeAntiparallel
		case BspEdgeAntiparallel:
			return BspEdgeParallel
		default:
			return c
		}
	}
	for _, e := range edges {
		fwd := bsp.ClassifyEdge(e[0], e[1])
		rev := bsp.ClassifyEdge(e[1], e[0])
		if rev != swap(fwd) {
			t.Errorf("edge %v->%v: fwd=%v rev=%v, want rev=%v", e[0], e[1], fwd, rev, swap(fwd))
		}
	}
}

func TestMinDistanceToEdge(t *testing.T) {
	bsp := unitSquareBsp()
	segs := [][2]UV{
		{{0, 0}, {1, 0}},
		{{1, 0}, {1, 1}},
		{{1, 1}, {0, 1}},
		{{0, 1}, {0, 0}},
	}
	brute := func(p UV) float64 {
		min := math.Inf(1)
		for _, s := range segs {
			d := s[1].Sub(s[0])
			t := p.Sub(s[0]).Dot(d) / d.Dot(d)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			proj := s[0].Add(d.Scale(t))
			if dist := p.Sub(proj).Length(); dist < min {
				min = dist
			}
		}
		return min
	}

	points := []UV{{0.5, 0.5}, {2, 0.5}, {-1, -1}, {0.5, 0}, {0.9, 0.9}}
	for _, p := range points {
		got := bsp.MinDistanceToEdge(p)
		if got < 0 {
			t.Errorf("MinDistanceToEdge(%v) = %g, want non-negative", p, got)
		}
		if want := brute(p); math.Abs(got-want) > 1e-12 {
			t.Errorf("MinDistanceToEdge(%v) = %g, want %g", p, got, want)
		}
	}
}

func TestEmptyBspClassifiesInside(t *testing.T) {
	face := &Face{Surface: flatPatch{}}
	bsp := BuildClassifyingBsp(face, nil)
	if got := bsp.ClassifyPoint(UV{3, -7}, UV{3, -7}); got != BspInside {
		t.Errorf("empty bsp: got %v, want INSIDE", got)
	}
}
