package geom

import (
	"math"

	"github.com/sawbench/lignin/pkg/brep"
)

// PlaneIntersector implements brep.Intersector for Plane faces: it finds
// the line where two planes meet, clips it to both faces' xyz bounding
// boxes, and appends the surviving segment as a new intersection curve.
type PlaneIntersector struct{}

var _ brep.Intersector = PlaneIntersector{}

// IntersectAgainst appends an intersection curve between ourFace and
// otherFace to outShell if their planes are not parallel and the
// clipped segment is non-degenerate.
func (PlaneIntersector) IntersectAgainst(ourFace, otherFace *brep.Face, ourShell, otherShell, outShell *brep.Shell) {
	pa, ok := ourFace.Surface.(Plane)
	if !ok {
		return
	}
	pb, ok := otherFace.Surface.(Plane)
	if !ok {
		return
	}

	origin, dir, ok := planeLine(pa, pb)
	if !ok {
		return
	}

	aMin, aMax := ourFace.BoundingBox()
	bMin, bMax := otherFace.BoundingBox()

	tMin, tMax, ok := clipLineToBox(origin, dir, aMin, aMax)
	if !ok {
		return
	}
	tMin, tMax, ok = clipInterval(tMin, tMax, clipLineToBoxOrFull(origin, dir, bMin, bMax))
	if !ok {
		return
	}
	if tMax-tMin < brep.LengthEps {
		return
	}

	start := origin.Add(dir.Scale(tMin))
	end := origin.Add(dir.Scale(tMax))

	curve := &brep.Curve{
		PWL: []brep.PWLVertex{
			{P: start, Topological: true},
			{P: end, Topological: true},
		},
		SurfA:  ourFace.Handle,
		SurfB:  otherFace.Handle,
		Source: brep.SourceIntersection,
	}
	outShell.AddCurve(curve)
}

// planeLine returns a point and unit direction of the line where a and
// b's planes meet, or ok=false if they are parallel, using the standard
// two-plane intersection formula: direction L = na x nb, point
// p0 = ((da*nb - db*na) x L) / (L.L).
func planeLine(a, b Plane) (origin, dir brep.Vec3, ok bool) {
	na := a.NormalAt(0, 0)
	nb := b.NormalAt(0, 0)
	l := na.Cross(nb)
	l2 := l.Dot(l)
	if l2 < 1e-12 {
		return brep.Vec3{}, brep.Vec3{}, false
	}

	da := na.Dot(a.Origin)
	db := nb.Dot(b.Origin)

	p0 := (nb.Scale(da).Sub(na.Scale(db))).Cross(l).Scale(1 / l2)
	return p0, l.Normalize(), true
}

// clipLineToBox clips the parametric line origin+t*dir to the
// axis-aligned box [min,max] using the standard slab method, returning
// the surviving [tMin,tMax] and whether any overlap exists.
func clipLineToBox(origin, dir, min, max brep.Vec3) (tMin, tMax float64, ok bool) {
	tMin, tMax = math.Inf(-1), math.Inf(1)
	axes := []struct{ o, d, lo, hi float64 }{
		{origin.X, dir.X, min.X, max.X},
		{origin.Y, dir.Y, min.Y, max.Y},
		{origin.Z, dir.Z, min.Z, max.Z},
	}
	const pad = 1e-6
	for _, ax := range axes {
		lo, hi := ax.lo-pad, ax.hi+pad
		if math.Abs(ax.d) < 1e-15 {
			if ax.o < lo || ax.o > hi {
				return 0, 0, false
			}
			continue
		}
		t0 := (lo - ax.o) / ax.d
		t1 := (hi - ax.o) / ax.d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// clipLineToBoxOrFull is clipLineToBox but returns the widest possible
// interval instead of signaling failure, for use as an intersectable
// operand in clipInterval.
func clipLineToBoxOrFull(origin, dir, min, max brep.Vec3) [2]float64 {
	tMin, tMax, ok := clipLineToBox(origin, dir, min, max)
	if !ok {
		return [2]float64{1, 0}
	}
	return [2]float64{tMin, tMax}
}

func clipInterval(tMin, tMax float64, other [2]float64) (float64, float64, bool) {
	if other[0] > other[1] {
		return 0, 0, false
	}
	if other[0] > tMin {
		tMin = other[0]
	}
	if other[1] < tMax {
		tMax = other[1]
	}
	return tMin, tMax, tMin <= tMax
}
