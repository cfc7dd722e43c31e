package brep

// Surface is the host-provided rational parametric surface contract the
// core consumes. A concrete geometry library implements this for each
// surface type it supports; the core treats a Surface as opaque beyond
// these five operations.
type Surface interface {
	// PointAt evaluates the surface at (u,v).
	PointAt(u, v float64) Vec3
	// NormalAt returns the outward unit surface normal at (u,v).
	NormalAt(u, v float64) Vec3
	// TangentsAt returns the partial derivatives d/du and d/dv at (u,v).
	TangentsAt(u, v float64) (tu, tv Vec3)
	// ClosestPointTo returns the (u,v) nearest to p, seeded from hint
	// when non-nil, and whether the search converged.
	ClosestPointTo(p Vec3, hint *UV) (uv UV, converged bool)
	// PointOnSurfaces refines uv in place so that PointAt(uv) lies
	// simultaneously on this surface and on other1, other2, via a
	// three-surface Newton step. Returns false if the refinement failed
	// to converge.
	PointOnSurfaces(other1, other2 Surface, uv *UV) bool
}

// ExactCurve is a Curve's optional exact rational representation.
type ExactCurve interface {
	// Degree returns the curve's polynomial degree.
	Degree() int
	// ProjectPoint returns the point on the exact curve nearest p.
	ProjectPoint(p Vec3) Vec3
}

// Intersector appends intersection curves between two faces to
// outShell. ourShell/otherShell are the two input shells being
// combined; outShell is the Boolean's output shell under construction.
type Intersector interface {
	IntersectAgainst(ourFace, otherFace *Face, ourShell, otherShell, outShell *Shell)
}

// PointHit is one crossing point returned by AllPointsIntersecting: an
// xyz point and the face it was found on.
type PointHit struct {
	P    Vec3
	Face Handle
}

// AllPointsIntersecting is the host's segment-vs-all-faces intersector.
// asSegment restricts the search to the finite segment a-b rather than
// its infinite extension; trimmed restricts hits to each face's
// currently valid trim region; includeTangent controls whether
// tangential (non-transversal) crossings are reported.
type AllPointsIntersecting func(a, b Vec3, asSegment, trimmed, includeTangent bool) []PointHit

// ClassifyEdgeFunc is the host's 3D edge classification against a
// shell. It returns the classification of the regions on the in-normal
// side and out-normal side of an edge whose midpoint, in/out normal
// offsets, and face normal are given.
type ClassifyEdgeFunc func(aXYZ, bXYZ, midXYZ, enIn, enOut, surfN Vec3) (indir, outdir RegionClass)
