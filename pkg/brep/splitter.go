package brep

import "sort"

// SplitCurveAgainst produces a new curve equal to curve but with an
// additional vertex at every point where curve crosses a face of either
// ownerShell (the shell curve belongs to) or otherShell, refined to lie
// simultaneously on that face and on curve's own two trimmed faces.
//
// curve must have at least two PWL vertices; an empty curve is a caller
// error, not a data error.
func SplitCurveAgainst(curve *Curve, ownerShell, otherShell *Shell) *Curve {
	if len(curve.PWL) < 2 {
		panic("brep: SplitCurveAgainst requires a curve with at least two vertices")
	}

	srfA := ownerShell.Face(curve.SurfA)
	srfB := ownerShell.Face(curve.SurfB)

	out := curve.Clone()
	out.PWL = out.PWL[:0]
	out.PWL = append(out.PWL, curve.PWL[0])

	for i := 1; i < len(curve.PWL); i++ {
		prev := curve.PWL[i-1]
		next := curve.PWL[i]
		splits := splitSegment(prev.P, next.P, curve.SurfA, curve.SurfB, srfA, srfB, ownerShell, otherShell)
		for _, p := range splits {
			out.PWL = append(out.PWL, PWLVertex{P: p, Topological: true})
		}
		out.PWL = append(out.PWL, next)
	}

	return out
}

// interCulled tags an SInter that must not produce a split vertex.
const interCulled = 1

// splitSegment finds every point at which segment prev-next crosses a
// face of either shell, refines it, and returns the survivors ordered
// along the segment.
func splitSegment(prev, next Vec3, srfAHandle, srfBHandle Handle, srfA, srfB *Face, ownerShell, otherShell *Shell) []Vec3 {
	var hits []PointHit
	if ownerShell.Intersect != nil {
		hits = append(hits, ownerShell.Intersect(prev, next, true, false, true)...)
	}
	if otherShell.Intersect != nil {
		hits = append(hits, otherShell.Intersect(prev, next, true, false, true)...)
	}
	if len(hits) == 0 {
		return nil
	}

	dir := next.Sub(prev)
	dirLen2 := dir.Dot(dir)
	if dirLen2 < 1e-18 {
		return nil
	}

	il := make([]SInter, 0, len(hits))
	for _, hit := range hits {
		il = append(il, SInter{P: hit.P, Face: hit.Face})
	}

	for i := range il {
		pi := &il[i]
		if pi.Face == srfAHandle || pi.Face == srfBHandle {
			// Expected endpoint intersections with the curve's own two
			// faces; keeping them would make the three-surface
			// refinement matrix singular.
			pi.Tag = interCulled
			continue
		}

		f := ownerShell.Face(pi.Face)
		if f == nil {
			f = otherShell.Face(pi.Face)
		}
		if f == nil || f.Surface == nil {
			pi.Tag = interCulled
			continue
		}

		uv, _ := f.Surface.ClosestPointTo(pi.P, nil)
		if f.bsp != nil {
			if f.bsp.ClassifyPoint(uv, uv) == BspOutside && f.bsp.MinDistanceToEdge(uv) > ChordTolerance {
				pi.Tag = interCulled
				continue
			}
		}

		// Keeping this intersection, so actually refine it.
		if srfA != nil && srfB != nil {
			if f.Surface.PointOnSurfaces(srfA.Surface, srfB.Surface, &uv) {
				pi.P = f.Surface.PointAt(uv.U, uv.V)
			}
		}
	}

	kept := il[:0]
	for _, pi := range il {
		if pi.Tag != interCulled {
			kept = append(kept, pi)
		}
	}

	// Sort along the line after refining, since refinement can make two
	// points switch places.
	sort.Slice(kept, func(i, j int) bool {
		return kept[i].P.Sub(prev).Dot(dir) < kept[j].P.Sub(prev).Dot(dir)
	})

	// An on-edge intersection generates the same split point for both
	// surfaces meeting there, so successive equal points collapse to one.
	result := make([]Vec3, 0, len(kept))
	last := Vec3{X: VeryPositive}
	for _, pi := range kept {
		if pi.P.Distance(last) >= LengthEps {
			result = append(result, pi.P)
		}
		last = pi.P
	}
	return result
}

// DropShortSegments removes PWL segments shorter than eps from curve's
// vertex list in place, to prevent zero-area artifacts downstream.
// Endpoints are never dropped.
func DropShortSegments(curve *Curve, eps float64) {
	if len(curve.PWL) < 3 {
		return
	}
	kept := curve.PWL[:1]
	for i := 1; i < len(curve.PWL)-1; i++ {
		if curve.PWL[i].P.Distance(kept[len(kept)-1].P) < eps {
			continue
		}
		kept = append(kept, curve.PWL[i])
	}
	end := curve.PWL[len(curve.PWL)-1]
	for len(kept) > 1 && kept[len(kept)-1].P.Distance(end.P) < eps {
		kept = kept[:len(kept)-1]
	}
	kept = append(kept, end)
	curve.PWL = kept
}
