package brep

// BooleanOptions configures a single Boolean invocation. The zero value
// uses the package defaults.
type BooleanOptions struct {
	// ChordTolerance overrides the package-level ChordTolerance for this
	// invocation only. Zero means "use the package default".
	ChordTolerance float64
	// MinSegmentLength is the length below which a curve's PWL segments
	// are dropped after splitting. Zero means
	// LengthEps.
	MinSegmentLength float64
}

func (o BooleanOptions) chordTolerance() float64 {
	if o.ChordTolerance > 0 {
		return o.ChordTolerance
	}
	return ChordTolerance
}

func (o BooleanOptions) minSegmentLength() float64 {
	if o.MinSegmentLength > 0 {
		return o.MinSegmentLength
	}
	return LengthEps
}

// MakeFromUnionOf combines a and b with a Boolean union into a freshly
// built output shell.
func MakeFromUnionOf(a, b *Shell, opts BooleanOptions) *Shell {
	return runBoolean(Union, a, b, opts)
}

// MakeFromDifferenceOf combines a and b with a Boolean difference
// (a minus b) into a freshly built output shell.
func MakeFromDifferenceOf(a, b *Shell, opts BooleanOptions) *Shell {
	return runBoolean(Difference, a, b, opts)
}

// runBoolean implements the driver's numbered steps. Any
// deviation from this order breaks classification.
func runBoolean(t BooleanType, a, b *Shell, opts BooleanOptions) *Shell {
	out := NewShell()

	// The splitter and probe read the package-level chord tolerance;
	// Booleans are single-threaded, so a per-invocation override swaps
	// it for the duration of the run.
	if opts.ChordTolerance > 0 {
		saved := ChordTolerance
		ChordTolerance = opts.chordTolerance()
		defer func() { ChordTolerance = saved }()
	}

	// A shell may have been through an earlier Boolean or assembly; its
	// redirection scratch must not leak into this invocation.
	resetRedirects(a)
	resetRedirects(b)

	if len(a.Faces) == 0 || len(b.Faces) == 0 {
		a.Sentinel = VeryPositive
		b.Sentinel = VeryPositive
	}

	// Step 1: build classifying BSPs for both input shells from each
	// face's original trim curves.
	rebuildFaceBsps(a, func(f *Face) []UVEdge { return faceOriginalUVEdges(f, a) })
	rebuildFaceBsps(b, func(f *Face) []UVEdge { return faceOriginalUVEdges(f, b) })

	// Step 2: split every curve of A against B, and every curve of B
	// against A; clone into output and record new_handle on each source
	// curve.
	splitAndClone(a, b, out)
	splitAndClone(b, a, out)

	// Step 3: generate intersection curves by pairwise face
	// intersection.
	generateIntersections(a, b, out)

	// Step 4: drop PWL segments shorter than a length epsilon.
	for _, c := range out.OrderedCurves() {
		DropShortSegments(c, opts.minSegmentLength())
	}

	// Step 5: clear transient edge lists on input faces; rebuild each
	// input face's classifying BSP from the split curves now in the
	// output shell.
	a.ClearScratch()
	b.ClearScratch()
	rebuildFaceBsps(a, func(f *Face) []UVEdge { return splitCurveUVEdges(f, a, out) })
	rebuildFaceBsps(b, func(f *Face) []UVEdge { return splitCurveUVEdges(f, b, out) })

	// Step 6: trim each face of A against B, each face of B against A.
	for _, f := range a.OrderedFaces() {
		TrimFace(f, t, true, a, b, out)
	}
	for _, f := range b.OrderedFaces() {
		TrimFace(f, t, false, b, a, out)
	}

	// Step 7: rewrite every output curve's surfA/surfB to point at the
	// newly created output faces via new_handle.
	for _, c := range out.OrderedCurves() {
		if fa := a.Face(c.SurfA); fa != nil && fa.newHandle != 0 {
			c.SurfA = fa.newHandle
		} else if fb := b.Face(c.SurfA); fb != nil && fb.newHandle != 0 {
			c.SurfA = fb.newHandle
		}
		if fa := a.Face(c.SurfB); fa != nil && fa.newHandle != 0 {
			c.SurfB = fa.newHandle
		} else if fb := b.Face(c.SurfB); fb != nil && fb.newHandle != 0 {
			c.SurfB = fb.newHandle
		}
	}

	// Step 8: clear transient state on the input shells.
	a.ClearScratch()
	b.ClearScratch()

	return out
}

// resetRedirects zeroes the new_handle scratch on every face and curve
// of shell, left over from a previous Boolean or assembly on the same
// inputs.
func resetRedirects(shell *Shell) {
	for _, f := range shell.Faces {
		f.newHandle = 0
	}
	for _, c := range shell.Curves {
		c.NewHandle = 0
	}
}

// faceOriginalUVEdges projects a face's original trim-by records
// (curve.PWL, in the face's own owning shell, pre-split) to uv, for the
// first BSP build.
func faceOriginalUVEdges(f *Face, owner *Shell) []UVEdge {
	var uv []UVEdge
	for _, tb := range f.TrimLoops {
		c := owner.Curve(tb.Curve)
		if c == nil {
			continue
		}
		uv = append(uv, toUVEdges(f, curveEdges(c, tb.Backwards))...)
	}
	return uv
}

// rebuildFaceBsps rebuilds every face's classifying BSP from the uv
// edge list edgesFor produces, keeping that list and its xyz
// counterpart on the face for queries while the Boolean runs.
func rebuildFaceBsps(shell *Shell, edgesFor func(f *Face) []UVEdge) {
	for _, f := range shell.Faces {
		uv := edgesFor(f)
		f.uvEdges = uv
		f.bsp = BuildClassifyingBsp(f, uv)

		xyz := make([]XYZEdge, 0, len(uv))
		for _, e := range uv {
			xyz = append(xyz, XYZEdge{
				A:         f.Surface.PointAt(e.A.U, e.A.V),
				B:         f.Surface.PointAt(e.B.U, e.B.V),
				Curve:     e.Curve,
				Backwards: e.Backwards,
			})
		}
		f.xyzEdges = xyz
	}
	// Face bounding boxes just changed, so any index built over the old
	// ones is stale.
	shell.index = nil
}

// splitCurveUVEdges projects face's original trim curves (now split
// against the opposite shell's clones via new_handle) to uv, for the
// second BSP build.
func splitCurveUVEdges(f *Face, owner, out *Shell) []UVEdge {
	var edges []UVEdge
	for _, tb := range f.TrimLoops {
		c := owner.Curve(tb.Curve)
		if c == nil || c.NewHandle == 0 {
			continue
		}
		splitCurve := out.Curve(c.NewHandle)
		if splitCurve == nil {
			continue
		}
		for i := 1; i < len(splitCurve.PWL); i++ {
			a, _ := f.Surface.ClosestPointTo(splitCurve.PWL[i-1].P, nil)
			b, _ := f.Surface.ClosestPointTo(splitCurve.PWL[i].P, nil)
			if tb.Backwards {
				a, b = b, a
			}
			edges = append(edges, UVEdge{A: a, B: b, Curve: c.NewHandle, Backwards: tb.Backwards})
		}
	}
	return edges
}

// splitAndClone runs SplitCurveAgainst for every curve owned by owner,
// clones the split result into out, and records new_handle on the
// source curve.
func splitAndClone(owner, other, out *Shell) {
	for _, c := range owner.OrderedCurves() {
		split := SplitCurveAgainst(c, owner, other)
		out.AddCurve(split)
		c.NewHandle = split.Handle
	}
}

// generateIntersections asks the host's Intersector to append
// intersection curves between every pairing of a face of a with a face
// of b, into out.
func generateIntersections(a, b, out *Shell) {
	for _, fa := range a.OrderedFaces() {
		for _, fb := range b.OrderedFaces() {
			if fa.Surface == nil || fb.Surface == nil {
				continue
			}
			var intersector Intersector
			if a.Intersector != nil {
				intersector = a.Intersector
			} else {
				intersector = b.Intersector
			}
			if intersector == nil {
				continue
			}
			intersector.IntersectAgainst(fa, fb, a, b, out)
		}
	}
}

// MakeFromAssemblyOf merges a and b into a freshly built output shell by
// pure renumbering: no intersection or classification is performed.
func MakeFromAssemblyOf(a, b *Shell) *Shell {
	out := NewShell()

	assembleCurves(a, out)
	assembleCurves(b, out)

	assembleFaces(a, out)
	assembleFaces(b, out)

	for _, c := range out.Curves {
		rewriteAssembledRefs(c, a, out)
		rewriteAssembledRefs(c, b, out)
	}

	return out
}

func assembleCurves(src, out *Shell) {
	for _, c := range src.OrderedCurves() {
		clone := c.Clone()
		out.AddCurve(clone)
		c.NewHandle = clone.Handle
	}
}

func assembleFaces(src, out *Shell) {
	for _, f := range src.OrderedFaces() {
		clone := &Face{Surface: f.Surface, TrimLoops: make([]TrimBy, len(f.TrimLoops))}
		for i, tb := range f.TrimLoops {
			newCurve := tb.Curve
			if c := src.Curve(tb.Curve); c != nil && c.NewHandle != 0 {
				newCurve = c.NewHandle
			}
			clone.TrimLoops[i] = TrimBy{Curve: newCurve, Start: tb.Start, Finish: tb.Finish, Backwards: tb.Backwards}
		}
		out.AddFace(clone)
		f.newHandle = clone.Handle
	}
}

func rewriteAssembledRefs(c *Curve, src, out *Shell) {
	if fa := src.Face(c.SurfA); fa != nil && fa.newHandle != 0 {
		c.SurfA = fa.newHandle
	}
	if fb := src.Face(c.SurfB); fb != nil && fb.newHandle != 0 {
		c.SurfB = fb.newHandle
	}
}
