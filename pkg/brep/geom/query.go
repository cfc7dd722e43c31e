package geom

import (
	"math"

	"github.com/sawbench/lignin/pkg/brep"
)

// SegmentAllFaces returns a brep.AllPointsIntersecting backed by
// shell's R-tree face index, restricted to Plane faces.
func SegmentAllFaces(shell *brep.Shell) brep.AllPointsIntersecting {
	return func(a, b brep.Vec3, asSegment, trimmed, includeTangent bool) []brep.PointHit {
		dir := b.Sub(a)
		min, max := segmentBox(a, b)
		var hits []brep.PointHit
		for _, f := range shell.FacesNear(min, max, brep.LengthEps) {
			pl, ok := f.Surface.(Plane)
			if !ok {
				continue
			}
			n := pl.NormalAt(0, 0)
			denom := n.Dot(dir)
			if math.Abs(denom) < 1e-12 {
				continue // tangent to the plane; no isolated crossing point
			}
			t := n.Dot(pl.Origin.Sub(a)) / denom
			if asSegment && (t < -brep.LengthEps || t > 1+brep.LengthEps) {
				continue
			}
			p := a.Add(dir.Scale(t))
			if trimmed {
				uv, _ := pl.ClosestPointTo(p, nil)
				if f.ClassifyUV(uv) == brep.BspOutside {
					continue
				}
			}
			hits = append(hits, brep.PointHit{P: p, Face: f.Handle})
		}
		return hits
	}
}

func segmentBox(a, b brep.Vec3) (min, max brep.Vec3) {
	min = brep.Vec3{X: minf(a.X, b.X), Y: minf(a.Y, b.Y), Z: minf(a.Z, b.Z)}
	max = brep.Vec3{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y), Z: maxf(a.Z, b.Z)}
	return min, max
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ClassifyEdge implements brep.ClassifyEdgeFunc against shell's Plane
// faces. Each flank probe point is first tested for coincidence: a
// point lying on one of shell's face
// planes inside that face's trim region is on the shell's boundary, and
// classifies as COINC_SAME or COINC_OPP by comparing surfN with the
// coincident face's outward normal. Off-boundary points are classified
// inside/outside by ray-casting along surfN and counting trimmed
// crossings.
func ClassifyEdge(shell *brep.Shell) brep.ClassifyEdgeFunc {
	return func(aXYZ, bXYZ, midXYZ, enIn, enOut, surfN brep.Vec3) (indir, outdir brep.RegionClass) {
		inPt := midXYZ.Add(enIn)
		outPt := midXYZ.Add(enOut)
		return classifyPoint(shell, inPt, surfN), classifyPoint(shell, outPt, surfN)
	}
}

func classifyPoint(shell *brep.Shell, p, surfN brep.Vec3) brep.RegionClass {
	if c, ok := classifyCoincident(shell, p, surfN); ok {
		return c
	}
	dir := surfN.Normalize()
	if dir.Length() < 1e-12 {
		dir = brep.Vec3{X: 1}
	}
	count := 0
	for _, f := range shell.OrderedFaces() {
		pl, ok := f.Surface.(Plane)
		if !ok {
			continue
		}
		n := pl.NormalAt(0, 0)
		denom := n.Dot(dir)
		if math.Abs(denom) < 1e-12 {
			continue
		}
		t := n.Dot(pl.Origin.Sub(p)) / denom
		if t <= brep.LengthEps {
			continue
		}
		hit := p.Add(dir.Scale(t))
		uv, _ := pl.ClosestPointTo(hit, nil)
		if f.ClassifyUV(uv) == brep.BspOutside {
			continue
		}
		count++
	}
	if count%2 == 1 {
		return brep.RegionInside
	}
	return brep.RegionOutside
}

// classifyCoincident reports whether p lies on a face of shell, and if
// so whether the face the querying region came from (normal surfN) has
// its material on the same side as shell's solid there. Parallel
// normals mean the two boundaries agree (COINC_SAME); anti-parallel
// means the solids meet back to back (COINC_OPP).
func classifyCoincident(shell *brep.Shell, p, surfN brep.Vec3) (brep.RegionClass, bool) {
	for _, f := range shell.OrderedFaces() {
		pl, ok := f.Surface.(Plane)
		if !ok {
			continue
		}
		n := pl.NormalAt(0, 0)
		if math.Abs(n.Dot(p.Sub(pl.Origin))) >= brep.LengthEps {
			continue
		}
		uv, converged := pl.ClosestPointTo(p, nil)
		if !converged || f.ClassifyUV(uv) == brep.BspOutside {
			continue
		}
		// A face whose plane merely passes through p at a steep angle is
		// not a coincident region; only near-parallel boundaries count.
		switch d := n.Dot(surfN); {
		case d > 0.5:
			return brep.RegionCoincSame, true
		case d < -0.5:
			return brep.RegionCoincOpp, true
		}
	}
	return brep.RegionOutside, false
}
