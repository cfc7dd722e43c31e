package brep

import "log"

// ReversibleSurface is implemented by Surface adapters that can hand
// back a copy of themselves with the parametrization's outward normal
// flipped. TrimFace uses it to turn the subtracted solid inside out for
// DIFFERENCE's operand-B faces.
type ReversibleSurface interface {
	Reversed() Surface
}

// TrimFace assembles the output trim polygon for one face of an operand
// being processed against the opposite shell, and returns the new,
// trimmed face, added to outShell, or nil when no part of the face
// survives.
//
// face belongs to ownerShell; otherShell is the opposite operand. Both
// shells must already have had their classifying BSPs rebuilt from the
// split curves in outShell (driver step 5) before TrimFace is called.
func TrimFace(face *Face, t BooleanType, opA bool, ownerShell, otherShell, outShell *Shell) *Face {
	surf := face.Surface
	if t == Difference && !opA {
		if rs, ok := surf.(ReversibleSurface); ok {
			surf = rs.Reversed()
		}
	}
	out := &Face{Surface: surf}

	orig := buildOrigEdges(face, out, ownerShell, outShell)
	origBsp := BuildClassifyingBsp(out, toUVEdges(out, orig))

	inter := buildInterEdges(face, out, t, opA, ownerShell, otherShell, outShell)

	choosing := ChoosingPoints(orig, inter)

	var final []XYZEdge

	for len(orig) > 0 {
		chain := ExtractChain(&orig, choosing)
		rep := chain[len(chain)/2]
		probe := probeChainEdge(out, rep, outShell, ownerShell, otherShell)
		indirShell, outdirShell := classifyAgainstOpposite(otherShell, rep, probe)
		if KeepEdge(t, opA, RegionInside, RegionOutside, indirShell, outdirShell) {
			final = append(final, chain...)
		}
	}

	for len(inter) > 0 {
		chain := ExtractChain(&inter, choosing)
		rep := chain[len(chain)/2]
		probe := probeChainEdge(out, rep, outShell, ownerShell, otherShell)
		indirShell, outdirShell := classifyAgainstOpposite(otherShell, rep, probe)

		auv, _ := out.Surface.ClosestPointTo(rep.A, nil)
		buv, _ := out.Surface.ClosestPointTo(rep.B, nil)
		indirOrig, outdirOrig := mapBspClass(origBsp.ClassifyEdge(auv, buv))

		if KeepEdge(t, opA, indirOrig, outdirOrig, indirShell, outdirShell) {
			final = append(final, chain...)
		}
	}

	final = cullDuplicateAndAntiParallel(final)
	if len(final) == 0 {
		// Nothing of this face survives the combination. It is omitted
		// from the output rather than added with an empty trim, so a
		// difference of identical solids really is an empty shell.
		return nil
	}
	out.TrimLoops = assembleTrimBy(final)

	if !verifyClosedPolygon(out.TrimLoops) {
		outShell.BooleanFailed = true
		outShell.NakedEdges = append(outShell.NakedEdges, final...)
		log.Printf("brep: face %v failed to assemble a closed trim polygon (%d edges, sentinel=%g)",
			face.Handle, len(final), ownerShell.Sentinel)
	}

	outShell.AddFace(out)
	face.newHandle = out.Handle
	return out
}

// buildOrigEdges rewrites face's original trim-by records through the
// new_handle redirection on its curves so they reference curves already
// cloned into outShell, and returns the xyz edge list they trace.
func buildOrigEdges(face *Face, out *Face, ownerShell, outShell *Shell) []XYZEdge {
	var edges []XYZEdge
	for _, tb := range face.TrimLoops {
		inputCurve := ownerShell.Curve(tb.Curve)
		if inputCurve == nil || inputCurve.NewHandle == 0 {
			continue
		}
		outputCurve := outShell.Curve(inputCurve.NewHandle)
		if outputCurve == nil {
			continue
		}
		edges = append(edges, curveEdges(outputCurve, tb.Backwards)...)
	}
	return edges
}

// curveEdges returns the consecutive-vertex xyz edges of a curve's PWL,
// traversed backwards if requested.
func curveEdges(c *Curve, backwards bool) []XYZEdge {
	if len(c.PWL) < 2 {
		return nil
	}
	edges := make([]XYZEdge, 0, len(c.PWL)-1)
	for i := 1; i < len(c.PWL); i++ {
		a, b := c.PWL[i-1].P, c.PWL[i].P
		edges = append(edges, XYZEdge{A: a, B: b, Curve: c.Handle, Backwards: backwards})
	}
	if backwards {
		for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
			edges[i], edges[j] = edges[j], edges[i]
		}
		for i := range edges {
			edges[i] = edges[i].Reversed()
		}
	}
	return edges
}

// toUVEdges projects a list of xyz edges onto face's uv parameter space.
func toUVEdges(face *Face, edges []XYZEdge) []UVEdge {
	uv := make([]UVEdge, 0, len(edges))
	for _, e := range edges {
		a, _ := face.Surface.ClosestPointTo(e.A, nil)
		b, _ := face.Surface.ClosestPointTo(e.B, nil)
		uv = append(uv, UVEdge{A: a, B: b, Curve: e.Curve, Backwards: e.Backwards})
	}
	return uv
}

// buildInterEdges builds the intersection-edge list for face: every
// segment of every output intersection curve between face and some face
// G of the opposite shell that G's (already-rebuilt) classifying BSP
// does not classify as strictly outside.
func buildInterEdges(face, out *Face, t BooleanType, opA bool, ownerShell, otherShell, outShell *Shell) []XYZEdge {
	var edges []XYZEdge
	for _, c := range outShell.OrderedCurves() {
		if c.Source != SourceIntersection {
			continue
		}
		var g *Face
		switch {
		case c.SurfA == face.Handle:
			g = otherShell.Face(c.SurfB)
		case c.SurfB == face.Handle:
			g = otherShell.Face(c.SurfA)
		default:
			continue
		}
		if g == nil || g.bsp == nil {
			continue
		}
		for i := 1; i < len(c.PWL); i++ {
			a, b := c.PWL[i-1].P, c.PWL[i].P
			guvA, _ := g.Surface.ClosestPointTo(a, nil)
			guvB, _ := g.Surface.ClosestPointTo(b, nil)
			if g.bsp.ClassifyEdge(guvA, guvB) == BspOutside {
				continue
			}
			edge := XYZEdge{A: a, B: b, Curve: c.Handle}
			if orientAgainst(edge, out, g) {
				edge = edge.Reversed()
			}
			if t == Difference && !opA {
				edge = edge.Reversed()
			}
			edges = append(edges, edge)
		}
	}
	return edges
}

// orientAgainst reports whether edge, as currently directed, needs
// reversing so that the in-side its edge-normal probe samples points
// away from g's solid, along g's outward normal.
// That puts the material the policy keeps for the A operand on the
// in-flank; the additional DIFFERENCE/operand-B reversal in
// buildInterEdges flips it back for the inside-out subtrahend.
func orientAgainst(edge XYZEdge, f, g *Face) bool {
	mid := edge.A.Lerp(edge.B, 0.5)
	fuv, _ := f.Surface.ClosestPointTo(mid, nil)
	guv, _ := g.Surface.ClosestPointTo(mid, nil)
	fn := f.Surface.NormalAt(fuv.U, fuv.V)
	gn := g.Surface.NormalAt(guv.U, guv.V)
	ab := edge.A.Sub(edge.B)
	inward := ab.Cross(fn)
	return inward.Dot(gn) < 0
}

// probeChainEdge runs EdgeNormalProbe for the representative edge of a
// chain, looking up the curve's own trimmed faces to feed the
// exact-curve projection fallback. The curve's SurfA/SurfB still carry
// their pre-rewrite handles at this point in the driver (step 7 rewrites
// them only after every face has been trimmed), so those faces live in
// one of the two input shells, not outShell.
func probeChainEdge(ret *Face, rep XYZEdge, outShell, ownerShell, otherShell *Shell) ProbeResult {
	c := outShell.Curve(rep.Curve)
	auv, _ := ret.Surface.ClosestPointTo(rep.A, nil)
	buv, _ := ret.Surface.ClosestPointTo(rep.B, nil)
	if c == nil {
		return EdgeNormalProbe(ret, auv, buv, &Curve{}, nil, nil)
	}
	lookup := func(h Handle) Surface {
		if f := ownerShell.Face(h); f != nil {
			return f.Surface
		}
		if f := otherShell.Face(h); f != nil {
			return f.Surface
		}
		return nil
	}
	return EdgeNormalProbe(ret, auv, buv, c, lookup(c.SurfA), lookup(c.SurfB))
}

// classifyAgainstOpposite asks otherShell's host classifier to classify
// the regions bordering rep using the edge-normal probe's midpoint,
// in/out normal offsets, and face normal.
func classifyAgainstOpposite(otherShell *Shell, rep XYZEdge, probe ProbeResult) (indir, outdir RegionClass) {
	if otherShell.ClassifyEdgeFn == nil {
		return RegionOutside, RegionOutside
	}
	return otherShell.ClassifyEdgeFn(rep.A, rep.B, probe.Pt, probe.EnIn, probe.EnOut, probe.SurfN)
}

// mapBspClass maps a UV-BSP edge classification to the (indir, outdir)
// pair the region-keep policy expects for an intersection-edge chain
// whose original-loop membership is determined by the original trim
// region, rather than fixed at (INSIDE, OUTSIDE) the way orig-loop
// chains are.
func mapBspClass(c BspClass) (indir, outdir RegionClass) {
	switch c {
	case BspInside:
		return RegionInside, RegionInside
	case BspOutside:
		return RegionOutside, RegionOutside
	case BspEdgeParallel:
		return RegionInside, RegionOutside
	case BspEdgeAntiparallel:
		return RegionOutside, RegionInside
	default:
		log.Printf("brep: unexpected bsp class %v for an intersection edge", c)
		return RegionOutside, RegionOutside
	}
}

// cullDuplicateAndAntiParallel removes an edge if another edge in the
// list is its exact reverse (A/B swapped, same curve) or its exact
// duplicate (same curve, same direction).
func cullDuplicateAndAntiParallel(edges []XYZEdge) []XYZEdge {
	dropped := make([]bool, len(edges))
	for i := range edges {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(edges); j++ {
			if dropped[j] {
				continue
			}
			if edges[i].A.Distance(edges[j].B) < LengthEps && edges[i].B.Distance(edges[j].A) < LengthEps {
				dropped[i] = true
				dropped[j] = true
				break
			}
			if edges[i].A.Distance(edges[j].A) < LengthEps && edges[i].B.Distance(edges[j].B) < LengthEps {
				dropped[j] = true
			}
		}
	}
	kept := make([]XYZEdge, 0, len(edges))
	for i, e := range edges {
		if !dropped[i] {
			kept = append(kept, e)
		}
	}
	return kept
}

// assembleTrimBy builds trim-by records from the surviving edge set,
// coalescing contiguous edges that share a curve handle and direction
// into a single record spanning the chain's endpoints. Edges need not
// already be in loop order.
func assembleTrimBy(edges []XYZEdge) []TrimBy {
	remaining := append([]XYZEdge(nil), edges...)
	var out []TrimBy
	for len(remaining) > 0 {
		run := []XYZEdge{remaining[0]}
		remaining = remaining[1:]
		for {
			tail := run[len(run)-1]
			idx := -1
			for i, e := range remaining {
				if e.Curve == tail.Curve && e.Backwards == tail.Backwards && e.A.Distance(tail.B) < LengthEps {
					idx = i
					break
				}
			}
			if idx < 0 {
				break
			}
			run = append(run, remaining[idx])
			remaining = append(remaining[:idx], remaining[idx+1:]...)
		}
		out = append(out, TrimBy{
			Curve:     run[0].Curve,
			Start:     run[0].A,
			Finish:    run[len(run)-1].B,
			Backwards: run[0].Backwards,
		})
	}
	return out
}

// verifyClosedPolygon reports whether trims chain end-to-start within
// LengthEps, forming one or more closed loops.
func verifyClosedPolygon(trims []TrimBy) bool {
	if len(trims) == 0 {
		return true
	}
	used := make([]bool, len(trims))
	for i := range trims {
		if used[i] {
			continue
		}
		start := trims[i].Start
		cur := trims[i].Finish
		used[i] = true
		closed := false
		for {
			if cur.Distance(start) < LengthEps {
				closed = true
				break
			}
			found := false
			for j, tb := range trims {
				if used[j] {
					continue
				}
				if tb.Start.Distance(cur) < LengthEps {
					cur = tb.Finish
					used[j] = true
					found = true
					break
				}
			}
			if !found {
				break
			}
		}
		if !closed {
			return false
		}
	}
	return true
}
