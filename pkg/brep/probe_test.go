package brep

import (
	"math"
	"testing"
)

// fixedCurve is an ExactCurve projecting everything to one point.
type fixedCurve struct {
	degree int
	p      Vec3
}

func (c fixedCurve) Degree() int              { return c.degree }
func (c fixedCurve) ProjectPoint(p Vec3) Vec3 { return c.p }

func TestEdgeNormalProbeFlatFace(t *testing.T) {
	face := &Face{Surface: flatPatch{}}
	a, b := UV{0.2, 0.5}, UV{0.8, 0.5}

	res := EdgeNormalProbe(face, a, b, &Curve{}, nil, nil)

	if res.Pt != (Vec3{0.5, 0.5, 0}) {
		t.Errorf("Pt = %v, want midpoint (0.5,0.5,0)", res.Pt)
	}
	if res.SurfN != (Vec3{0, 0, 1}) {
		t.Errorf("SurfN = %v, want (0,0,1)", res.SurfN)
	}

	// The a->b traversal runs along +u; for a counter-clockwise loop the
	// valid region is to its left, so the in-offset points along +v and
	// the out-offset along -v, both a chord tolerance long.
	if res.EnIn.Y <= 0 {
		t.Errorf("EnIn = %v, want +Y offset", res.EnIn)
	}
	if res.EnOut.Y >= 0 {
		t.Errorf("EnOut = %v, want -Y offset", res.EnOut)
	}
	if math.Abs(res.EnIn.Length()-ChordTolerance) > ChordTolerance/1e3 {
		t.Errorf("EnIn length = %g, want about %g", res.EnIn.Length(), ChordTolerance)
	}
	if math.Abs(res.EnOut.Length()-ChordTolerance) > ChordTolerance/1e3 {
		t.Errorf("EnOut length = %g, want about %g", res.EnOut.Length(), ChordTolerance)
	}
}

func TestEdgeNormalProbeUsesExactCurve(t *testing.T) {
	face := &Face{Surface: flatPatch{}}
	c := &Curve{Exact: fixedCurve{degree: 2, p: Vec3{0.5, 0.6, 0}}}

	res := EdgeNormalProbe(face, UV{0.2, 0.5}, UV{0.8, 0.5}, c, nil, nil)

	if res.Pt != (Vec3{0.5, 0.6, 0}) {
		t.Errorf("Pt = %v, want the exact-curve projection (0.5,0.6,0)", res.Pt)
	}
}

func TestEdgeNormalProbeDegreeOneSkipsExact(t *testing.T) {
	face := &Face{Surface: flatPatch{}}
	// Degree 1 exact curves are lines; the PWL midpoint already lies on
	// them, so projection is skipped.
	c := &Curve{Exact: fixedCurve{degree: 1, p: Vec3{9, 9, 9}}}

	res := EdgeNormalProbe(face, UV{0.2, 0.5}, UV{0.8, 0.5}, c, nil, nil)

	if res.Pt != (Vec3{0.5, 0.5, 0}) {
		t.Errorf("Pt = %v, want the uv midpoint (0.5,0.5,0)", res.Pt)
	}
}

func TestEdgeNormalProbeProjectsOntoSurfacePair(t *testing.T) {
	face := &Face{Surface: flatPatch{}}
	// Both trimmed surfaces are the same plane as the face itself, so
	// alternating projection is the identity and the midpoint stays put.
	res := EdgeNormalProbe(face, UV{0.2, 0.5}, UV{0.8, 0.5}, &Curve{}, flatPatch{}, flatPatch{})

	if res.Pt.Distance(Vec3{0.5, 0.5, 0}) > 1e-12 {
		t.Errorf("Pt = %v, want (0.5,0.5,0)", res.Pt)
	}
}
