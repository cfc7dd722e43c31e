package brep

// ExtractChain removes and returns a maximal chain of edges from edges
// that does not pass through any point in choosing, starting from an
// arbitrary edge and greedily extending forward and backward. The
// returned slice is ordered head-to-tail. edges must be non-empty; an
// empty source edge list is a caller error.
//
// At any non-choosing point exactly two edges meet, so extension is
// unambiguous; a choosing point (more than two edges meeting) stops the
// chain so each side of the junction can be classified independently.
func ExtractChain(edges *[]XYZEdge, choosing *PointList) []XYZEdge {
	if len(*edges) == 0 {
		panic("brep: ExtractChain requires a non-empty source edge list")
	}

	src := *edges
	chain := []XYZEdge{src[0]}
	src = append(src[:0:0], src[1:]...)

	// Extend forward: the chain's tail.B matches some edge's A.
	for {
		tail := chain[len(chain)-1]
		if choosing.IsChoosing(tail.B) {
			break
		}
		idx := findByA(src, tail.B)
		if idx < 0 {
			idx = findByB(src, tail.B)
		}
		if idx < 0 {
			break
		}
		next := src[idx]
		if next.A.Distance(tail.B) > LengthEps {
			next = next.Reversed()
		}
		chain = append(chain, next)
		src = removeAt(src, idx)
	}

	// Extend backward: the chain's head.A matches some edge's B.
	for {
		head := chain[0]
		if choosing.IsChoosing(head.A) {
			break
		}
		idx := findByB(src, head.A)
		if idx < 0 {
			idx = findByA(src, head.A)
		}
		if idx < 0 {
			break
		}
		prev := src[idx]
		if prev.B.Distance(head.A) > LengthEps {
			prev = prev.Reversed()
		}
		chain = append([]XYZEdge{prev}, chain...)
		src = removeAt(src, idx)
	}

	*edges = src
	return chain
}

func findByA(edges []XYZEdge, p Vec3) int {
	for i, e := range edges {
		if e.A.Distance(p) < LengthEps {
			return i
		}
	}
	return -1
}

func findByB(edges []XYZEdge, p Vec3) int {
	for i, e := range edges {
		if e.B.Distance(p) < LengthEps {
			return i
		}
	}
	return -1
}

func removeAt(edges []XYZEdge, i int) []XYZEdge {
	edges[i] = edges[len(edges)-1]
	return edges[:len(edges)-1]
}

// ChoosingPoints computes the set of points where more than two of edges
// (combining orig and inter) meet.
func ChoosingPoints(edgeLists ...[]XYZEdge) *PointList {
	pl := &PointList{}
	for _, edges := range edgeLists {
		for _, e := range edges {
			pl.Add(e.A)
			pl.Add(e.B)
		}
	}
	return pl
}
