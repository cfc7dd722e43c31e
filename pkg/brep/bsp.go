package brep

import (
	"log"
	"math"
	"sort"
)

// bspNode is a directed uv-line segment plus up to three children: pos
// (positive half-plane), neg (negative half-plane), and more (additional
// segments coincident with this node's line). Coincident segments chain
// through more rather than splitting the tree further.
type bspNode struct {
	a, b UV
	pos  *bspNode
	neg  *bspNode
	more *bspNode
}

// ClassifyingBsp answers point-in-region and edge-vs-region queries
// against a face's original trim loop in (u,v).
type ClassifyingBsp struct {
	face *Face
	root *bspNode
}

// BuildClassifyingBsp constructs a UV-BSP for face from edges, sorted
// longest-first by xyz length for split-plane numerical stability.
func BuildClassifyingBsp(face *Face, edges []UVEdge) *ClassifyingBsp {
	bsp := &ClassifyingBsp{face: face}
	sorted := make([]UVEdge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bsp.xyzLength(sorted[i]) > bsp.xyzLength(sorted[j])
	})
	for _, e := range sorted {
		bsp.insert(&bsp.root, e)
	}
	return bsp
}

func (bsp *ClassifyingBsp) xyzLength(e UVEdge) float64 {
	pa := bsp.face.Surface.PointAt(e.A.U, e.A.V)
	pb := bsp.face.Surface.PointAt(e.B.U, e.B.V)
	return pa.Distance(pb)
}

// localScale returns the per-axis scale factors of the local
// linearization metric at query point q: the magnitudes of the surface
// tangents there.
func (bsp *ClassifyingBsp) localScale(q UV) (su, sv float64) {
	tu, tv := bsp.face.Surface.TangentsAt(q.U, q.V)
	return tu.Length(), tv.Length()
}

// signedDistance returns the signed distance of q to node's line, scaled
// by q's local metric: scale q, a, b by the tangent magnitudes at q; let
// n be the unit left-hand normal of (b-a); return n.q - n.a.
func (bsp *ClassifyingBsp) signedDistance(n *bspNode, q UV) float64 {
	su, sv := bsp.localScale(q)
	return signedLineDistance(n.a, n.b, q, su, sv)
}

func signedLineDistance(a, b, q UV, su, sv float64) float64 {
	qs := q.scaleBy(su, sv)
	as := a.scaleBy(su, sv)
	bs := b.scaleBy(su, sv)
	dir := bs.Sub(as)
	nrm := dir.Perp()
	ln := nrm.Length()
	if ln < 1e-15 {
		return 0
	}
	nrm = nrm.Scale(1 / ln)
	return nrm.Dot(qs) - nrm.Dot(as)
}

// scaledSegDist returns the scaled distance from q to the finite segment
// s.a-s.b, under the metric local to q.
func scaledSegDist(s *bspNode, q UV, su, sv float64) float64 {
	qs := q.scaleBy(su, sv)
	as := s.a.scaleBy(su, sv)
	bs := s.b.scaleBy(su, sv)
	d := bs.Sub(as)
	l2 := d.Dot(d)
	if l2 < 1e-15 {
		return qs.Sub(as).Length()
	}
	t := qs.Sub(as).Dot(d) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := as.Add(d.Scale(t))
	return qs.Sub(proj).Length()
}

// insert adds edge e to the tree rooted at *node, splitting it at the
// node's line if it straddles both half-planes.
func (bsp *ClassifyingBsp) insert(node **bspNode, e UVEdge) {
	if *node == nil {
		*node = &bspNode{a: e.A, b: e.B}
		return
	}
	n := *node
	da := bsp.signedDistance(n, e.A)
	db := bsp.signedDistance(n, e.B)

	switch {
	case math.Abs(da) < LengthEps && math.Abs(db) < LengthEps:
		bsp.addMore(n, e)
	case da >= -LengthEps && db >= -LengthEps:
		bsp.insert(&n.pos, e)
	case da <= LengthEps && db <= LengthEps:
		bsp.insert(&n.neg, e)
	default:
		t := da / (da - db)
		mid := e.A.Lerp(e.B, t)
		e1 := UVEdge{A: e.A, B: mid, Curve: e.Curve, Backwards: e.Backwards}
		e2 := UVEdge{A: mid, B: e.B, Curve: e.Curve, Backwards: e.Backwards}
		if da > 0 {
			bsp.insert(&n.pos, e1)
			bsp.insert(&n.neg, e2)
		} else {
			bsp.insert(&n.neg, e1)
			bsp.insert(&n.pos, e2)
		}
	}
}

func (bsp *ClassifyingBsp) addMore(n *bspNode, e UVEdge) {
	tail := n
	for tail.more != nil {
		tail = tail.more
	}
	tail.more = &bspNode{a: e.A, b: e.B}
}

// ClassifyPoint classifies p against the face's trim region. hint is the
// "other end" of the edge p came from, used to disambiguate on-edge
// points into EDGE_PARALLEL vs EDGE_ANTIPARALLEL.
func (bsp *ClassifyingBsp) ClassifyPoint(p, hint UV) BspClass {
	if bsp.root == nil {
		return BspInside
	}
	return bsp.classifyAt(bsp.root, p, hint)
}

func (bsp *ClassifyingBsp) classifyAt(node *bspNode, p, hint UV) BspClass {
	d := bsp.signedDistance(node, p)
	if math.Abs(d) >= LengthEps {
		if d > 0 {
			if node.pos == nil {
				return BspInside
			}
			return bsp.classifyAt(node.pos, p, hint)
		}
		if node.neg == nil {
			return BspOutside
		}
		return bsp.classifyAt(node.neg, p, hint)
	}

	su, sv := bsp.localScale(p)
	for s := node; s != nil; s = s.more {
		if scaledSegDist(s, p, su, sv) < LengthEps {
			hintDist := signedLineDistance(s.a, s.b, hint, su, sv)
			if math.Abs(hintDist) < LengthEps {
				dir := s.b.Sub(s.a)
				if dir.Dot(hint.Sub(p)) > 0 {
					return BspEdgeParallel
				}
				return BspEdgeAntiparallel
			}
			return BspEdgeOther
		}
	}

	// On the node's line but on none of its coincident segments. The two
	// half-planes may disagree about such a point; take the neg side and
	// let the tolerance-driven callers absorb the ambiguity.
	negClass := BspOutside
	if node.neg != nil {
		negClass = bsp.classifyAt(node.neg, p, hint)
	}
	posClass := BspInside
	if node.pos != nil {
		posClass = bsp.classifyAt(node.pos, p, hint)
	}
	if posClass != negClass {
		log.Printf("brep: bsp on-line classification mismatch at (%g,%g): pos=%v neg=%v", p.U, p.V, posClass, negClass)
	}
	return negClass
}

// edgeOtherFraction is the non-midpoint sample point ClassifyEdge falls
// back to when the midpoint lands exactly on a tangency: an
// arbitrary fraction chosen to not itself be a "nice" number like 0.5 or
// 1/3 that tangencies in test geometry are likely to also hit.
const edgeOtherFraction = 0.294

// ClassifyEdge classifies the edge a-b by sampling its midpoint with b as
// the disambiguating partner; if that lands on a tangency (EDGE_OTHER),
// it resamples at a non-midpoint fraction to dodge it.
func (bsp *ClassifyingBsp) ClassifyEdge(a, b UV) BspClass {
	mid := a.Lerp(b, 0.5)
	c := bsp.ClassifyPoint(mid, b)
	if c == BspEdgeOther {
		alt := a.Lerp(b, edgeOtherFraction)
		c = bsp.ClassifyPoint(alt, b)
	}
	return c
}

// ClassifyUV classifies p against face's current classifying BSP, or
// reports BspInside if the face has none built.
func (f *Face) ClassifyUV(p UV) BspClass {
	if f.bsp == nil {
		return BspInside
	}
	return f.bsp.ClassifyPoint(p, p)
}

// MinDistanceToEdge returns the minimum, over every segment inserted
// into the tree, of the scaled point-to-segment distance from p.
func (bsp *ClassifyingBsp) MinDistanceToEdge(p UV) float64 {
	su, sv := bsp.localScale(p)
	min := VeryPositive
	var walk func(n *bspNode)
	walk = func(n *bspNode) {
		if n == nil {
			return
		}
		for s := n; s != nil; s = s.more {
			if d := scaledSegDist(s, p, su, sv); d < min {
				min = d
			}
		}
		walk(n.pos)
		walk(n.neg)
	}
	walk(bsp.root)
	return min
}
