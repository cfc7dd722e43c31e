package geom

import (
	"math"
	"testing"

	"github.com/sawbench/lignin/pkg/brep"
)

func TestSegmentAllFacesCrossings(t *testing.T) {
	shell := Box(1, 1, 1)
	intersect := SegmentAllFaces(shell)

	hits := intersect(brep.Vec3{X: -1, Y: 0.5, Z: 0.5}, brep.Vec3{X: 2, Y: 0.5, Z: 0.5}, true, false, true)
	if len(hits) != 2 {
		t.Fatalf("hit count = %d, want 2 (x=0 and x=1 faces)", len(hits))
	}
	xs := []float64{hits[0].P.X, hits[1].P.X}
	if xs[0] > xs[1] {
		xs[0], xs[1] = xs[1], xs[0]
	}
	if math.Abs(xs[0]) > 1e-9 || math.Abs(xs[1]-1) > 1e-9 {
		t.Errorf("crossings at x=%g and x=%g, want 0 and 1", xs[0], xs[1])
	}
	for _, h := range hits {
		if shell.Face(h.Face) == nil {
			t.Errorf("hit names unknown face %v", h.Face)
		}
	}
}

func TestSegmentAllFacesRespectsSegmentBounds(t *testing.T) {
	shell := Box(1, 1, 1)
	intersect := SegmentAllFaces(shell)

	// The segment stops short of the cube; as_segment must suppress the
	// crossings its infinite extension would have.
	hits := intersect(brep.Vec3{X: -3, Y: 0.5, Z: 0.5}, brep.Vec3{X: -2, Y: 0.5, Z: 0.5}, true, false, true)
	if len(hits) != 0 {
		t.Errorf("hit count = %d, want 0 for a segment ending before the cube", len(hits))
	}
}

func TestClassifyEdgeInsideOutside(t *testing.T) {
	shell := Box(1, 1, 1)
	classify := ClassifyEdge(shell)

	up := brep.Vec3{Z: 1}
	inside := brep.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
	outside := brep.Vec3{X: 0.5, Y: 0.5, Z: 3}

	indir, outdir := classify(brep.Vec3{}, brep.Vec3{}, inside, brep.Vec3{}, outside.Sub(inside), up)
	if indir != brep.RegionInside {
		t.Errorf("interior point classified %v, want INSIDE", indir)
	}
	if outdir != brep.RegionOutside {
		t.Errorf("exterior point classified %v, want OUTSIDE", outdir)
	}
}

func TestClassifyEdgeCoincidence(t *testing.T) {
	shell := Box(1, 1, 1)
	classify := ClassifyEdge(shell)

	onTop := brep.Vec3{X: 0.5, Y: 0.5, Z: 1}

	// A querying face whose normal agrees with the top face's: material
	// on the same side.
	same, _ := classify(brep.Vec3{}, brep.Vec3{}, onTop, brep.Vec3{}, brep.Vec3{X: 5}, brep.Vec3{Z: 1})
	if same != brep.RegionCoincSame {
		t.Errorf("aligned normals: got %v, want COINC_SAME", same)
	}

	// Opposed normals: two solids meeting back to back.
	opp, _ := classify(brep.Vec3{}, brep.Vec3{}, onTop, brep.Vec3{}, brep.Vec3{X: 5}, brep.Vec3{Z: -1})
	if opp != brep.RegionCoincOpp {
		t.Errorf("opposed normals: got %v, want COINC_OPP", opp)
	}
}
