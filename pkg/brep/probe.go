package brep

// ProbeResult is the output of EdgeNormalProbe: a point actually on the
// true curve an edge approximates, the face's normal there, and the
// xyz in/out normal offsets used to sample either side of the edge.
type ProbeResult struct {
	Pt    Vec3
	SurfN Vec3
	EnIn  Vec3
	EnOut Vec3
}

// projectIterations bounds the alternating-projection loop used to
// refine a point onto the intersection of two surfaces when the curve
// has no exact representation. Eight iterations
// converges well past chord tolerance for the mildly-curved surfaces
// this kernel targets; callers needing tighter guarantees should attach
// an ExactCurve instead.
const projectIterations = 8

// EdgeNormalProbe computes a midpoint that actually lies on the curve a
// uv edge (auv,buv) on face ret approximates, together with the face's
// inward and outward normal directions there. curveSurfA
// and curveSurfB are the surfaces of the two faces c trims (c.SurfA,
// c.SurfB), used by the fallback projection when c has no exact
// representation; either may be nil if unavailable, in which case the
// midpoint on ret is used as-is.
func EdgeNormalProbe(ret *Face, auv, buv UV, c *Curve, curveSurfA, curveSurfB Surface) ProbeResult {
	muv := auv.Lerp(buv, 0.5)
	pt := ret.Surface.PointAt(muv.U, muv.V)

	switch {
	case c.Exact != nil && c.Exact.Degree() > 1:
		pt = c.Exact.ProjectPoint(pt)
	case curveSurfA != nil && curveSurfB != nil:
		// Project onto the intersection of the two original faces the
		// curve trims, by alternating projection between them.
		pt = projectOntoIntersection(pt, curveSurfA, curveSurfB)
	}

	refined, ok := ret.Surface.ClosestPointTo(pt, &muv)
	if ok {
		muv = refined
	}

	surfn := ret.Surface.NormalAt(muv.U, muv.V)
	ap := ret.Surface.PointAt(auv.U, auv.V)
	bp := ret.Surface.PointAt(buv.U, buv.V)
	ab := ap.Sub(bp)
	enxyz := ab.Cross(surfn).WithLength(ChordTolerance)

	tu, tv := ret.Surface.TangentsAt(muv.U, muv.V)
	enuv := UV{
		U: safeDiv(enxyz.Dot(tu), tu.Dot(tu)),
		V: safeDiv(enxyz.Dot(tv), tv.Dot(tv)),
	}

	// enxyz points to the left of the a->b traversal, which for a
	// counter-clockwise trim loop is the side the face's valid region
	// lies on. The in-sample therefore offsets along +enuv and the
	// out-sample along -enuv.
	ptIn := ret.Surface.PointAt(muv.U+enuv.U, muv.V+enuv.V)
	ptOut := ret.Surface.PointAt(muv.U-enuv.U, muv.V-enuv.V)

	return ProbeResult{
		Pt:    pt,
		SurfN: surfn,
		EnIn:  ptIn.Sub(pt),
		EnOut: ptOut.Sub(pt),
	}
}

func safeDiv(n, d float64) float64 {
	if d < 1e-18 && d > -1e-18 {
		return 0
	}
	return n / d
}

// projectOntoIntersection approximates the point on the intersection
// curve of surfaces a and b nearest p by alternating closest-point
// projection between the two surfaces.
func projectOntoIntersection(p Vec3, a, b Surface) Vec3 {
	cur := p
	for i := 0; i < projectIterations; i++ {
		uvA, _ := a.ClosestPointTo(cur, nil)
		cur = a.PointAt(uvA.U, uvA.V)
		uvB, _ := b.ClosestPointTo(cur, nil)
		cur = b.PointAt(uvB.U, uvB.V)
	}
	return cur
}
