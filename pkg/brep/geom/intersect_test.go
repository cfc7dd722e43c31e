package geom

import (
	"testing"

	"github.com/sawbench/lignin/pkg/brep"
)

// faceWithNormal returns the first face of s whose outward normal points
// along want.
func faceWithNormal(t *testing.T, s *brep.Shell, want brep.Vec3) *brep.Face {
	t.Helper()
	for _, f := range s.OrderedFaces() {
		n := f.Surface.NormalAt(0.5, 0.5)
		if n.Dot(want) > 0.99 {
			return f
		}
	}
	t.Fatalf("no face with normal %v", want)
	return nil
}

func TestPlaneIntersectorPerpendicularFaces(t *testing.T) {
	a := Box(1, 1, 1)
	b := Apply(Box(1, 1, 1), Translation(0.5, 0.5, 0.5))
	out := brep.NewShell()

	top := faceWithNormal(t, a, brep.Vec3{Z: 1})        // z=1 plane
	side := faceWithNormal(t, b, brep.Vec3{X: -1})      // x=0.5 plane

	PlaneIntersector{}.IntersectAgainst(top, side, a, b, out)

	if got := len(out.Curves); got != 1 {
		t.Fatalf("curve count = %d, want 1", got)
	}
	c := out.OrderedCurves()[0]
	if c.Source != brep.SourceIntersection {
		t.Errorf("source = %v, want INTERSECTION", c.Source)
	}
	if c.SurfA != top.Handle || c.SurfB != side.Handle {
		t.Errorf("surface handles = %v/%v, want %v/%v", c.SurfA, c.SurfB, top.Handle, side.Handle)
	}
	if len(c.PWL) != 2 {
		t.Fatalf("PWL length = %d, want 2", len(c.PWL))
	}

	// The clipped segment is x=0.5, z=1, y in [0.5, 1].
	for _, v := range c.PWL {
		if !v.Topological {
			t.Error("intersection endpoints must be topological vertices")
		}
		if d := v.P.X - 0.5; d > 1e-6 || d < -1e-6 {
			t.Errorf("vertex %v off the x=0.5 plane", v.P)
		}
		if d := v.P.Z - 1; d > 1e-6 || d < -1e-6 {
			t.Errorf("vertex %v off the z=1 plane", v.P)
		}
	}
	ys := []float64{c.PWL[0].P.Y, c.PWL[1].P.Y}
	if ys[0] > ys[1] {
		ys[0], ys[1] = ys[1], ys[0]
	}
	if ys[0] < 0.5-1e-6 || ys[1] > 1+1e-6 || ys[1]-ys[0] < 0.5-1e-6 {
		t.Errorf("segment spans y=%g..%g, want 0.5..1", ys[0], ys[1])
	}
}

func TestPlaneIntersectorParallelFaces(t *testing.T) {
	a := Box(1, 1, 1)
	b := Apply(Box(1, 1, 1), Translation(0, 0, 0.5))
	out := brep.NewShell()

	top := faceWithNormal(t, a, brep.Vec3{Z: 1})
	bottom := faceWithNormal(t, b, brep.Vec3{Z: -1})

	PlaneIntersector{}.IntersectAgainst(top, bottom, a, b, out)

	if got := len(out.Curves); got != 0 {
		t.Errorf("curve count = %d, want 0 for parallel planes", got)
	}
}

func TestPlaneIntersectorDisjointFaces(t *testing.T) {
	a := Box(1, 1, 1)
	b := Apply(Box(1, 1, 1), Translation(5, 5, 5))
	out := brep.NewShell()

	top := faceWithNormal(t, a, brep.Vec3{Z: 1})
	side := faceWithNormal(t, b, brep.Vec3{X: -1})

	PlaneIntersector{}.IntersectAgainst(top, side, a, b, out)

	if got := len(out.Curves); got != 0 {
		t.Errorf("curve count = %d, want 0 for non-overlapping boxes", got)
	}
}
