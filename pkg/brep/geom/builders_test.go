package geom

import (
	"testing"

	"github.com/sawbench/lignin/pkg/brep"
)

func TestBoxTopology(t *testing.T) {
	s := Box(1, 2, 3)

	if got := len(s.Faces); got != 6 {
		t.Fatalf("face count = %d, want 6", got)
	}
	if got := len(s.Curves); got != 12 {
		t.Fatalf("curve count = %d, want 12", got)
	}

	// Every edge of a closed box is shared by exactly two faces.
	for _, c := range s.OrderedCurves() {
		if c.SurfA == 0 || c.SurfB == 0 {
			t.Errorf("curve %v: SurfA=%v SurfB=%v, want both set", c.Handle, c.SurfA, c.SurfB)
		}
		if c.SurfA == c.SurfB {
			t.Errorf("curve %v trims the same face twice", c.Handle)
		}
		if len(c.PWL) != 2 {
			t.Errorf("curve %v: PWL length %d, want 2", c.Handle, len(c.PWL))
		}
	}

	for _, f := range s.OrderedFaces() {
		if got := len(f.TrimLoops); got != 4 {
			t.Errorf("face %v: trim count %d, want 4", f.Handle, got)
		}
	}
}

func TestBoxNormalsPointOutward(t *testing.T) {
	s := Box(2, 2, 2)
	center := brep.Vec3{X: 1, Y: 1, Z: 1}

	for _, f := range s.OrderedFaces() {
		pl := f.Surface.(Plane)
		onFace := pl.PointAt(0.5, 0.5)
		n := pl.NormalAt(0.5, 0.5)
		if n.Dot(onFace.Sub(center)) <= 0 {
			t.Errorf("face %v: normal %v points inward", f.Handle, n)
		}
	}
}

func TestBoxTrimLoopsClose(t *testing.T) {
	s := Box(1, 1, 1)
	for _, f := range s.OrderedFaces() {
		trims := f.TrimLoops
		for i, tb := range trims {
			next := trims[(i+1)%len(trims)]
			if tb.Finish.Distance(next.Start) >= brep.LengthEps {
				t.Errorf("face %v: trim %d finish %v does not meet trim %d start %v",
					f.Handle, i, tb.Finish, i+1, next.Start)
			}
		}
	}
}

func TestPrismTopology(t *testing.T) {
	s := Prism(2, 1, 6)

	// An n-gonal prism: n sides plus two caps, 3n edges.
	if got := len(s.Faces); got != 8 {
		t.Fatalf("face count = %d, want 8", got)
	}
	if got := len(s.Curves); got != 18 {
		t.Fatalf("curve count = %d, want 18", got)
	}
	for _, c := range s.OrderedCurves() {
		if c.SurfA == 0 || c.SurfB == 0 {
			t.Errorf("curve %v: SurfA=%v SurfB=%v, want both set", c.Handle, c.SurfA, c.SurfB)
		}
	}
}

func TestPrismSegmentFloor(t *testing.T) {
	s := Prism(1, 1, 2)
	// Fewer than three segments cannot close; the builder clamps to a
	// triangular prism.
	if got := len(s.Faces); got != 5 {
		t.Errorf("face count = %d, want 5 (clamped to 3 segments)", got)
	}
}

func TestApplyTranslationMovesGeometry(t *testing.T) {
	s := Apply(Box(1, 1, 1), Translation(10, 0, 0))

	for _, c := range s.OrderedCurves() {
		for _, v := range c.PWL {
			if v.P.X < 10-brep.LengthEps {
				t.Fatalf("curve vertex %v not translated", v.P)
			}
		}
	}
	if got := len(s.Faces); got != 6 {
		t.Errorf("face count = %d, want 6", got)
	}

	// Topology references must survive the rebuild.
	for _, c := range s.OrderedCurves() {
		if s.Face(c.SurfA) == nil || s.Face(c.SurfB) == nil {
			t.Errorf("curve %v: surface references not remapped", c.Handle)
		}
	}
}
