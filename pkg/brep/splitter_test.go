package brep

import "testing"

// splitFixture is an owner shell holding one curve crossing the z=0
// plane, and an other shell holding one flat face with a canned
// intersector that reports the crossing points it is given.
func splitFixture(t *testing.T, hits ...Vec3) (*Shell, *Shell, *Curve, *Face) {
	t.Helper()
	owner := NewShell()
	other := NewShell()

	face := &Face{Surface: flatPatch{}}
	other.AddFace(face)

	curve := &Curve{
		PWL: []PWLVertex{
			{P: Vec3{0, 0, -1}, Topological: true},
			{P: Vec3{0, 0, 1}, Topological: true},
		},
	}
	owner.AddCurve(curve)

	other.Intersect = func(a, b Vec3, asSegment, trimmed, includeTangent bool) []PointHit {
		var out []PointHit
		for _, h := range hits {
			out = append(out, PointHit{P: h, Face: face.Handle})
		}
		return out
	}
	return owner, other, curve, face
}

func TestSplitCurveAgainstInsertsVertex(t *testing.T) {
	owner, other, curve, _ := splitFixture(t, Vec3{0, 0, 0})

	out := SplitCurveAgainst(curve, owner, other)

	if len(out.PWL) != 3 {
		t.Fatalf("split PWL length = %d, want 3", len(out.PWL))
	}
	if out.PWL[1].P != (Vec3{0, 0, 0}) {
		t.Errorf("split vertex = %v, want (0,0,0)", out.PWL[1].P)
	}
	if !out.PWL[1].Topological {
		t.Error("split vertex must be flagged topological")
	}
	if out.PWL[0] != curve.PWL[0] || out.PWL[2] != curve.PWL[1] {
		t.Error("segment endpoints must be emitted unchanged")
	}
	if len(curve.PWL) != 2 {
		t.Error("splitting must not mutate the source curve")
	}
}

func TestSplitCurveAgainstSortsAlongSegment(t *testing.T) {
	// Hits reported out of order along the segment.
	owner, other, curve, _ := splitFixture(t, Vec3{0, 0, 0.5}, Vec3{0, 0, -0.5})

	out := SplitCurveAgainst(curve, owner, other)

	if len(out.PWL) != 4 {
		t.Fatalf("split PWL length = %d, want 4", len(out.PWL))
	}
	if out.PWL[1].P != (Vec3{0, 0, -0.5}) || out.PWL[2].P != (Vec3{0, 0, 0.5}) {
		t.Errorf("split vertices out of order: %v, %v", out.PWL[1].P, out.PWL[2].P)
	}
}

func TestSplitCurveAgainstDropsOwnSurfaceHits(t *testing.T) {
	owner, other, curve, face := splitFixture(t, Vec3{0, 0, 0})
	// Pretend the hit face is one of the two faces the curve trims; the
	// crossing is then an expected endpoint intersection and must be
	// dropped to keep the three-surface refinement non-singular.
	curve.SurfA = face.Handle

	out := SplitCurveAgainst(curve, owner, other)

	if len(out.PWL) != 2 {
		t.Fatalf("split PWL length = %d, want 2 (hit on own surface dropped)", len(out.PWL))
	}
}

func TestSplitCurveAgainstSplitsAtSegmentStart(t *testing.T) {
	// An intersection coinciding with the segment's own start point is
	// still emitted; the driver's short-segment pass collapses the
	// zero-length lead edge afterwards.
	owner, other, curve, _ := splitFixture(t, Vec3{0, 0, -1})

	out := SplitCurveAgainst(curve, owner, other)

	if len(out.PWL) != 3 {
		t.Fatalf("split PWL length = %d, want 3", len(out.PWL))
	}
	if out.PWL[1].P != (Vec3{0, 0, -1}) {
		t.Errorf("split vertex = %v, want the segment start", out.PWL[1].P)
	}

	DropShortSegments(out, LengthEps)
	if len(out.PWL) != 2 {
		t.Errorf("after short-segment removal: %d vertices, want 2", len(out.PWL))
	}
}

func TestSplitCurveAgainstDedupesCoincidentHits(t *testing.T) {
	owner, other, curve, _ := splitFixture(t, Vec3{0, 0, 0}, Vec3{0, 0, 0})

	out := SplitCurveAgainst(curve, owner, other)

	if len(out.PWL) != 3 {
		t.Fatalf("split PWL length = %d, want 3 (coincident hits merged)", len(out.PWL))
	}
}

func TestSplitCurveAgainstPanicsOnDegenerateCurve(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a curve with fewer than two vertices")
		}
	}()
	owner := NewShell()
	other := NewShell()
	SplitCurveAgainst(&Curve{PWL: []PWLVertex{{P: Vec3{}}}}, owner, other)
}

func TestDropShortSegments(t *testing.T) {
	v := func(x, y, z float64) PWLVertex { return PWLVertex{P: Vec3{x, y, z}} }
	tests := []struct {
		name string
		in   []PWLVertex
		want int
	}{
		{"nothing short", []PWLVertex{v(0, 0, 0), v(1, 0, 0), v(2, 0, 0)}, 3},
		{"interior duplicate", []PWLVertex{v(0, 0, 0), v(0, 0, 0), v(1, 0, 0)}, 2},
		{"trailing duplicate", []PWLVertex{v(0, 0, 0), v(1, 0, 0), v(1, 0, 0)}, 2},
		{"two vertices untouched", []PWLVertex{v(0, 0, 0), v(0, 0, 0)}, 2},
		{"short interior run", []PWLVertex{v(0, 0, 0), v(0.3, 0, 0), v(0.3, 1e-9, 0), v(1, 0, 0)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Curve{PWL: tt.in}
			DropShortSegments(c, LengthEps)
			if len(c.PWL) != tt.want {
				t.Errorf("kept %d vertices, want %d", len(c.PWL), tt.want)
			}
			if c.PWL[0] != tt.in[0] {
				t.Error("first vertex must be preserved")
			}
			last := tt.in[len(tt.in)-1]
			if c.PWL[len(c.PWL)-1] != last {
				t.Error("last vertex must be preserved")
			}
		})
	}
}
